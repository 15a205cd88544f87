// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package facility

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// hemocenterTerms identify dedicated blood institutions by name. They are
// stored folded.
var hemocenterTerms = []string{
	"hemocentro",
	"hemocenter",
	"banco de sangue",
	"blood bank",
}

// fold lowercases s and strips diacritics so "HEMOCENTRO" and "Hemocêntro"
// compare equal.
func fold(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(s),
	)
	if err != nil {
		return strings.ToLower(s)
	}

	return folded
}

type classifyRule struct {
	typ   Type
	match func(foldedName string, tags map[string]string) bool
}

// classifyRules are evaluated in order; the first match wins. Name checks come
// before tag checks.
var classifyRules = []classifyRule{
	{Hemocenter, func(name string, _ map[string]string) bool {
		for _, term := range hemocenterTerms {
			if strings.Contains(name, term) {
				return true
			}
		}

		return false
	}},
	{CollectionPoint, func(_ string, tags map[string]string) bool {
		return tags["amenity"] == "blood_donation" || tags["healthcare"] == "blood_donation"
	}},
	{Hospital, func(_ string, tags map[string]string) bool {
		return tags["amenity"] == "hospital"
	}},
	{Clinic, func(_ string, tags map[string]string) bool {
		return tags["healthcare"] == "clinic"
	}},
}

// Classify returns the facility type for a resolved name and its tags,
// defaulting to CollectionPoint.
func Classify(name string, tags map[string]string) Type {
	folded := fold(name)

	for _, rule := range classifyRules {
		if rule.match(folded, tags) {
			return rule.typ
		}
	}

	return CollectionPoint
}
