package parser

import "regexp"

// Block comments are matched non-greedily across lines; line comments run to
// the end of the line and keep the newline.
var commentRe = regexp.MustCompile(`(?s:/\*.*?\*/)|//[^\n]*`)

// StripComments removes block and line comments from src. Comment-like text
// inside string or character literals is removed as well.
func StripComments(src string) string {
	return commentRe.ReplaceAllString(src, "")
}
