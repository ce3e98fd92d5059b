package publisher

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

// RenderMarkdown renders one section per student with each area's text,
// its byte count and the combined validation status.
func RenderMarkdown(records []record.IntegratedRecord, terms generator.TermSet) string {
	var sb strings.Builder
	sb.WriteString("# 생활기록부 서술 초안\n")
	for _, rec := range records {
		sb.WriteString(StudentMarkdown(rec, terms))
	}
	return sb.String()
}

// StudentMarkdown renders a single student's section.
func StudentMarkdown(rec record.IntegratedRecord, terms generator.TermSet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n## %s\n\n", rec.Name))
	sb.WriteString(fmt.Sprintf("_최종 검증 상태: %s_\n", generator.RecordStatus(rec, terms)))
	for _, a := range record.Areas {
		text := rec.Text(a)
		sb.WriteString(fmt.Sprintf("\n### %s (%d bytes)\n\n", a.Label(), generator.ByteCount(text)))
		if text == "" {
			sb.WriteString("(내용 없음)\n")
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// MarkdownToHTML converts markdown to an HTML fragment.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTMLPage wraps a fragment into a standalone UTF-8 page.
func HTMLPage(title, body string) string {
	return "<!doctype html>\n<html lang=\"ko\"><head><meta charset=\"utf-8\"><title>" +
		html.EscapeString(title) + "</title></head><body>\n" + body + "</body></html>\n"
}

// WriteReport writes report.md and report.html into dir and returns their paths.
func WriteReport(fs afero.Fs, dir string, records []record.IntegratedRecord, terms generator.TermSet) (string, string, error) {
	md := RenderMarkdown(records, terms)
	body, err := MarkdownToHTML(md)
	if err != nil {
		return "", "", fmt.Errorf("render report: %w", err)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	mdPath := filepath.Join(dir, "report.md")
	htmlPath := filepath.Join(dir, "report.html")
	if err := afero.WriteFile(fs, mdPath, []byte(md), 0o644); err != nil {
		return "", "", err
	}
	if err := afero.WriteFile(fs, htmlPath, []byte(HTMLPage("생활기록부 서술 초안", body)), 0o644); err != nil {
		return "", "", err
	}
	return mdPath, htmlPath, nil
}
