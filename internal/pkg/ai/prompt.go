package ai

import (
	"fmt"
	"strings"
)

const blogStyleDirective = `Write a complete blog post in markdown for the heading below.
Open with a short storytelling introduction that draws the reader in.
Support the main points with concrete facts and cite the source of each fact inline.
Do not repeat the heading as a title; start directly with the introduction.`

// BuildBlogPrompt 生成博客正文的提示词
func BuildBlogPrompt(heading string) string {
	return fmt.Sprintf("%s\n\nHeading: %s", blogStyleDirective, strings.TrimSpace(heading))
}
