package website

import "testing"

func TestCrawlerName(t *testing.T) {
	tests := []struct {
		ua       string
		expected string
	}{
		{"Twitterbot/1.0", "Twitterbot"},
		{"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)", "Facebook"},
		{"LinkedInBot/1.0 (compatible; Mozilla/5.0)", "LinkedIn"},
		{"Slackbot-LinkExpanding 1.0 (+https://api.slack.com/robots)", "Slack"},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "Googlebot"},
		{"SomeNewBot/0.1", "Other Bot"},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := crawlerName(tt.ua); got != tt.expected {
			t.Errorf("crawlerName(%q) = %q, want %q", tt.ua, got, tt.expected)
		}
	}
}
