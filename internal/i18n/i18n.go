// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the UI languages and their string catalogues.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// =============================================================================
// LANGUAGE
// =============================================================================

// Language is a supported UI language.
type Language int

const (
	English Language = iota
	Hindi
)

// All lists the languages in toggle order.
var All = []Language{English, Hindi}

var (
	tagEnglish = language.BritishEnglish
	tagHindi   = language.MustParse("hi-IN")

	matcher = language.NewMatcher([]language.Tag{tagEnglish, tagHindi})
)

// Parse resolves a language name or BCP 47 tag.
// "english", "hindi", "en", "hi", "en-US" and "hi-IN" are all accepted.
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "english", "en":
		return English, nil
	case "hindi", "hi", "हिंदी":
		return Hindi, nil
	case "":
		return English, fmt.Errorf("empty language")
	}

	tag, err := language.Parse(s)
	if err != nil {
		return English, fmt.Errorf("unknown language %q", s)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English, fmt.Errorf("unsupported language %q", s)
	}
	return All[idx], nil
}

// String returns the config name of the language.
func (l Language) String() string {
	if l == Hindi {
		return "hindi"
	}
	return "english"
}

// Code returns the two-letter code.
func (l Language) Code() string {
	if l == Hindi {
		return "hi"
	}
	return "en"
}

// Tag returns the regional tag used for speech and matching.
func (l Language) Tag() language.Tag {
	if l == Hindi {
		return tagHindi
	}
	return tagEnglish
}

// SpeechLocale returns the locale handed to speech engines.
func (l Language) SpeechLocale() string {
	return l.Tag().String()
}

// TranslateTarget returns the target code for the translation API.
func (l Language) TranslateTarget() string {
	return l.Code()
}

// Next returns the language after l in toggle order.
func (l Language) Next() Language {
	return All[(int(l)+1)%len(All)]
}

// =============================================================================
// CATALOGUE
// =============================================================================

// Strings is the set of user-facing labels for one language.
type Strings struct {
	Greeting     string
	UploadPrompt string
	RecentChats  string
	EnterQuery   string
	Language     string

	// Speech output.
	Slow    string
	Normal  string
	Fast    string
	Play    string
	Pause   string
	Resume  string
	Restart string

	// Speech input.
	RecognizerName    string
	Listening         string
	ListenStartFailed string
	ListenUnavailable string
}

var catalogue = map[Language]Strings{
	English: {
		Greeting:     "Hello, User",
		UploadPrompt: "Upload a file to get started",
		RecentChats:  "Recent Chats",
		EnterQuery:   "Enter your query",
		Language:     "English",

		Slow:    "Slow",
		Normal:  "Normal",
		Fast:    "Fast",
		Play:    "Play",
		Pause:   "Pause",
		Resume:  "Resume",
		Restart: "Restart",

		RecognizerName:    "English (UK)",
		Listening:         "Listening...",
		ListenStartFailed: "Error starting speech recognition. Check the recognizer command.",
		ListenUnavailable: "Speech input is unavailable: no recognizer command is configured.",
	},
	Hindi: {
		Greeting:     "नमस्ते, उपयोगकर्ता",
		UploadPrompt: "शुरू करने के लिए फ़ाइल अपलोड करें",
		RecentChats:  "हाल की चैट",
		EnterQuery:   "अपना प्रश्न दर्ज करें",
		Language:     "हिंदी",

		Slow:    "धीमी गति",
		Normal:  "सामान्य",
		Fast:    "तेज़",
		Play:    "बोलो",
		Pause:   "रोकें",
		Resume:  "जारी रखें",
		Restart: "फिर से शुरू करें",

		RecognizerName:    "Hindi",
		Listening:         "सुन रहा है...",
		ListenStartFailed: "Error starting speech recognition. Check the recognizer command.",
		ListenUnavailable: "Speech input is unavailable: no recognizer command is configured.",
	},
}

// Strings returns the catalogue for l.
func (l Language) Strings() Strings {
	if s, ok := catalogue[l]; ok {
		return s
	}
	return catalogue[English]
}

// RateLabel returns the label for a speech rate.
func (s Strings) RateLabel(rate float64) string {
	switch {
	case rate < 1:
		return s.Slow
	case rate > 1:
		return s.Fast
	default:
		return s.Normal
	}
}
