package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/bbpr/internal/bitbucket"
	"github.com/bjulian5/bbpr/internal/pullrequest"
)

// Truncate truncates text to maxLen with an ellipsis if needed
// Uses lipgloss for proper ANSI-aware width handling
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	width := lipgloss.Width(text)
	if width <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return lipgloss.NewStyle().MaxWidth(maxLen).Render(text)
	}

	return lipgloss.NewStyle().MaxWidth(maxLen-3).Render(text) + "..."
}

// firstLine returns text up to the first newline
func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}

func Pad(text string, width int, align lipgloss.Position) string {
	return lipgloss.PlaceHorizontal(width, align, text)
}

func RenderBox(title string, content string) string {
	style := BoxStyle
	if title != "" {
		style = style.BorderForeground(ColorPrimary)
		titleStyled := lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Render(title)

		combined := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", content)
		return style.Render(combined)
	}
	return style.Render(content)
}

func RenderKeyValue(key string, value string) string {
	keyStyled := DimStyle.Render(key + ":")
	return fmt.Sprintf("%s %s", keyStyled, value)
}

// RenderKeyValueList renders keys in order with their values aligned
func RenderKeyValueList(pairs map[string]string, keys []string) string {
	var lines []string

	maxKeyLen := 0
	for _, key := range keys {
		keyLen := lipgloss.Width(key)
		if keyLen > maxKeyLen {
			maxKeyLen = keyLen
		}
	}

	for _, key := range keys {
		paddedKey := Pad(key, maxKeyLen, lipgloss.Left)
		keyStyled := DimStyle.Render(paddedKey + ":")
		lines = append(lines, fmt.Sprintf("%s %s", keyStyled, pairs[key]))
	}

	return strings.Join(lines, "\n")
}

// RenderPullRequestDetails renders every field of a single row in a box
func RenderPullRequestDetails(row pullrequest.Row) string {
	pairs := make(map[string]string, len(pullrequest.Fields))
	keys := make([]string, 0, len(pullrequest.Fields))
	for _, field := range pullrequest.Fields {
		label := pullrequest.FieldLabels[field]
		value := row.Value(field)
		switch field {
		case "id", "description":
			continue
		case "state":
			value = GetStatus(value).Render()
		case "url":
			value = Highlight(value)
		}
		if value == "" {
			value = Dim("-")
		}
		pairs[label] = value
		keys = append(keys, label)
	}

	content := RenderKeyValueList(pairs, keys)
	if row.Description != "" {
		content += "\n\n" + Bold("Description:") + "\n" + row.Description
	}
	return RenderBox(fmt.Sprintf("PR #%d", row.ID), content)
}

// FormatPullRequestFinderLine formats a pull request for fuzzy finder display.
// Fuzzy finder doesn't support ANSI codes, so we use plain text.
func FormatPullRequestFinderLine(pr bitbucket.PullRequest) string {
	return fmt.Sprintf("#%d %s  %s → %s  (%s)",
		pr.ID,
		Truncate(pr.Title, Display.MaxTitleLength),
		pr.Source.Branch.Name,
		pr.Destination.Branch.Name,
		pr.Author.Name())
}

// FormatPullRequestPreview formats a pull request for the fuzzy finder preview window.
// Preview pane supports ANSI codes, so we can use styling.
func FormatPullRequestPreview(pr bitbucket.PullRequest) string {
	lines := []string{
		RenderKeyValue("PR", fmt.Sprintf("#%d (%s)", pr.ID, GetStatus(pr.State).Render())),
		RenderKeyValue("Title", Bold(pr.Title)),
		RenderKeyValue("Source", pr.Source.Branch.Name),
		RenderKeyValue("Destination", pr.Destination.Branch.Name),
	}

	if name := pr.Author.Name(); name != "" {
		lines = append(lines, RenderKeyValue("Author", name))
	}
	if url := pr.HTMLURL(); url != "" {
		lines = append(lines, RenderKeyValue("URL", Highlight(url)))
	}
	if pr.Description != "" {
		lines = append(lines, "", Bold("Description:"), pr.Description)
	}

	return strings.Join(lines, "\n")
}
