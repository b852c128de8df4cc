package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
)

const helloSrc = `---
title: Hello World
author: Alex Kearns
description: A first post
date: 2023-06-30
---

# Hello

Some *text*.
`

func file(src string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(src)}
}

func frontMatterSrc(title, date string) string {
	return "---\ntitle: " + title + "\nauthor: Alex Kearns\ndescription: d\ndate: " + date + "\n---\nbody\n"
}

func TestLoadAllSingleFile(t *testing.T) {
	fsys := fstest.MapFS{"articles/hello.mdx": file(helloSrc)}
	got, err := NewLoader(fsys, nil).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	a := got[0]
	if a.Slug != "hello" {
		t.Errorf("Slug = %q, want %q", a.Slug, "hello")
	}
	if a.Title != "Hello World" || a.Author != "Alex Kearns" || a.Description != "A first post" {
		t.Errorf("frontmatter not decoded: %+v", a)
	}
	want := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	if !a.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", a.Date, want)
	}
	if a.Path != "articles/hello.mdx" {
		t.Errorf("Path = %q", a.Path)
	}
	if !strings.Contains(string(a.Body), `<h1 id="hello">Hello</h1>`) {
		t.Errorf("Body not compiled: %q", a.Body)
	}
	if a.URL() != "/articles/hello/" {
		t.Errorf("URL() = %q", a.URL())
	}
	if a.FormattedDate() != "June 30, 2023" {
		t.Errorf("FormattedDate() = %q", a.FormattedDate())
	}
}

func TestLoadAllIsDeterministic(t *testing.T) {
	fsys := fstest.MapFS{
		"articles/hello.mdx":      file(helloSrc),
		"articles/aws/part-1.mdx": file(frontMatterSrc("Part 1", "2022-01-01")),
	}
	l := NewLoader(fsys, nil)
	first, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second load differs (-first +second):\n%s", diff)
	}
}

func TestLoadAllSortsNewestFirst(t *testing.T) {
	fsys := fstest.MapFS{
		"articles/a.mdx": file(frontMatterSrc("A", "2021-03-01")),
		"articles/b.mdx": file(frontMatterSrc("B", "2023-03-01")),
		"articles/c.mdx": file(frontMatterSrc("C", "2022-03-01")),
		"articles/d.mdx": file(frontMatterSrc("D", "2022-03-01")),
	}
	got, err := NewLoader(fsys, nil, WithConcurrency(2)).LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var slugs []string
	for _, a := range got {
		slugs = append(slugs, a.Slug)
	}
	want := []string{"b", "c", "d", "a"}
	if diff := cmp.Diff(want, slugs); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAllNestedAndMarkdown(t *testing.T) {
	fsys := fstest.MapFS{
		"articles/aws/part-1.mdx": file(frontMatterSrc("Part 1", "2022-01-01")),
		"articles/notes.md":       file(frontMatterSrc("Notes", "2022-01-02")),
		"articles/readme.txt":     file("ignored"),
		"articles/.drafts/x.mdx":  file("not frontmatter"),
		"pages/elsewhere.mdx":     file(frontMatterSrc("Elsewhere", "2022-01-03")),
	}
	got, err := NewLoader(fsys, nil).LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var slugs []string
	for _, a := range got {
		slugs = append(slugs, a.Slug)
	}
	if diff := cmp.Diff([]string{"notes", "aws/part-1"}, slugs); diff != "" {
		t.Errorf("slugs mismatch (-want +got):\n%s", diff)
	}
	if seg := got[1].Segments(); !cmp.Equal(seg, []string{"aws", "part-1"}) {
		t.Errorf("Segments() = %v", seg)
	}
}

func TestLoadAllMissingField(t *testing.T) {
	src := "---\ntitle: No author\ndescription: d\ndate: 2023-01-01\n---\nbody\n"
	fsys := fstest.MapFS{"articles/bad.mdx": file(src)}
	_, err := NewLoader(fsys, nil).LoadAll(context.Background())
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %T, want *ParseError", err)
	}
	if pe.Field != "author" || pe.Path != "articles/bad.mdx" {
		t.Errorf("ParseError = %+v", pe)
	}
}

func TestParseRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"title", "---\nauthor: a\ndescription: d\ndate: 2023-01-01\n---\n", "title"},
		{"blank title", "---\ntitle: \"  \"\nauthor: a\ndescription: d\ndate: 2023-01-01\n---\n", "title"},
		{"description", "---\ntitle: t\nauthor: a\ndate: 2023-01-01\n---\n", "description"},
		{"date", "---\ntitle: t\nauthor: a\ndescription: d\n---\n", "date"},
		{"no frontmatter", "just a body\n", "title"},
	}
	l := NewLoader(fstest.MapFS{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Parse("articles/x.mdx", []byte(tt.src))
			var pe *ParseError
			if !errors.As(err, &pe) || !errors.Is(err, ErrMissingField) {
				t.Fatalf("err = %v, want missing field", err)
			}
			if pe.Field != tt.field {
				t.Errorf("Field = %q, want %q", pe.Field, tt.field)
			}
		})
	}
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2023-06-30", time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"2023-06-30T09:15:00Z", time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"2023-06-30T09:15:00", time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"\"2021-12-01\"", time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC)},
	}
	l := NewLoader(fstest.MapFS{}, nil)
	for _, tt := range tests {
		a, err := l.Parse("articles/x.mdx", []byte(frontMatterSrc("T", tt.input)))
		if err != nil {
			t.Errorf("Parse(date=%s): %v", tt.input, err)
			continue
		}
		if !a.Date.Equal(tt.want) {
			t.Errorf("Parse(date=%s) = %v, want %v", tt.input, a.Date, tt.want)
		}
	}
}

func TestParseInvalidDate(t *testing.T) {
	l := NewLoader(fstest.MapFS{}, nil)
	_, err := l.Parse("articles/x.mdx", []byte(frontMatterSrc("T", "last tuesday")))
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}

func TestParseSeries(t *testing.T) {
	src := "---\ntitle: Getting started\nauthor: a\ndescription: d\ndate: 2023-01-01\nseries: AWS CDK\n---\n"
	a, err := NewLoader(fstest.MapFS{}, nil).Parse("articles/cdk/start.mdx", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if a.DisplayTitle() != "Getting started (AWS CDK)" {
		t.Errorf("DisplayTitle() = %q", a.DisplayTitle())
	}
}

func TestLoadAllCustomRoot(t *testing.T) {
	fsys := fstest.MapFS{"posts/one.mdx": file(frontMatterSrc("One", "2023-01-01"))}
	got, err := NewLoader(fsys, nil, WithRoot("/posts/")).LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Slug != "one" {
		t.Errorf("got %+v", got)
	}
}

func TestLoadAllMissingRoot(t *testing.T) {
	_, err := NewLoader(fstest.MapFS{}, nil).LoadAll(context.Background())
	if err == nil {
		t.Fatal("expected error for missing articles directory")
	}
}

func TestLoadAllCancelled(t *testing.T) {
	fsys := fstest.MapFS{"articles/a.mdx": file(frontMatterSrc("A", "2023-01-01"))}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(fsys, nil).LoadAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
