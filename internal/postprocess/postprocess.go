// Package postprocess cleans raw backend output before it is placed into a
// translated form.
//
// Seq2seq model output goes through StripSpecialTokens; chat-model output
// goes through Clean. Both end with Normalize so every string leaving a
// backend is NFC and whitespace-trimmed.
package postprocess

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Clean removes chat-model artifacts in order: reasoning blocks, echoed
// instructions, wrapping quotes, stray markup.
func Clean(text string) string {
	text = removeReasoningBlocks(text)
	text = removeLeadIns(text)
	text = removeQuoteWrapping(text)
	text = StripMarkup(text)
	return Normalize(text)
}

// StripSpecialTokens removes tokenizer control tokens (</s>, <pad>, <unk>,
// leading language codes such as "spa_Latn") that survive a decode without
// skip_special_tokens.
func StripSpecialTokens(text string) string {
	text = specialTokenRe.ReplaceAllString(text, "")
	text = leadingLangCodeRe.ReplaceAllString(text, "")
	return Normalize(text)
}

// Normalize returns the NFC form of text with surrounding whitespace removed.
func Normalize(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup drops any HTML a model emitted. bluemonday escapes the text it
// keeps, so entities are decoded again afterwards.
func StripMarkup(text string) string {
	if !strings.ContainsAny(text, "<>") {
		return text
	}
	return html.UnescapeString(strictPolicy.Sanitize(text))
}

var (
	specialTokenRe    = regexp.MustCompile(`</s>|<s>|<pad>|<unk>|<mask>`)
	leadingLangCodeRe = regexp.MustCompile(`^\s*(?:__)?[a-z]{3}_[A-Z][a-z]{3}(?:__)?\s*`)
)

// RE2 has no backreferences, so each tag pair is spelled out.
var reasoningBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// An opening tag with no close means the model was cut off mid-thought.
var openReasoningRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeReasoningBlocks(text string) string {
	text = reasoningBlockRe.ReplaceAllString(text, "")
	text = openReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// leadInPatterns are anchored at the start and require a colon so ordinary
// form text ("Translation services offered") is left alone.
var leadInPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? (?:translated )?(?:translation|text)(?: in [a-z]+)?\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated text)(?: in [a-z]+)?\s*:`),
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.!]? here(?:'s| is)(?: the)? (?:translated )?(?:translation|text)\s*:`),
}

func removeLeadIns(text string) string {
	for _, re := range leadInPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// quotePairs lists opening/closing rune pairs a model may wrap its answer in.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'«', '»'},
	{'“', '”'},
	{'‘', '’'},
	{'「', '」'},
}

func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	first, last := runes[0], runes[len(runes)-1]
	for _, p := range quotePairs {
		if first == p[0] && last == p[1] {
			return strings.TrimSpace(string(runes[1 : len(runes)-1]))
		}
	}
	return text
}
