package rest

import (
	"net/http"
	"strconv"
	"strings"
)

type responseFormat int

const (
	formatJSON responseFormat = iota
	formatText
)

const (
	mimeJSON = "application/json"
	mimeText = "text/plain"
)

// negotiateFormat picks the response format for generated passwords. An
// explicit ?format= wins over the Accept header; JSON is the default.
func negotiateFormat(r *http.Request) responseFormat {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "text", "txt", "plain":
		return formatText
	case "json":
		return formatJSON
	}

	accept := parseAccept(r.Header.Get("Accept"))
	textQ, hasText := accept[mimeText]
	jsonQ, hasJSON := accept[mimeJSON]
	if !hasText || textQ == 0 {
		return formatJSON
	}
	if !hasJSON {
		jsonQ = accept["*/*"]
	}
	if textQ > jsonQ {
		return formatText
	}
	return formatJSON
}

// parseAccept returns the quality value of each media range in an Accept
// header (RFC 9110). Ranges without a q parameter get 1.
func parseAccept(header string) map[string]float64 {
	ranges := make(map[string]float64)
	if header == "" {
		return ranges
	}

	for part := range strings.SplitSeq(header, ",") {
		mediaType, params, _ := strings.Cut(part, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
		if mediaType == "" {
			continue
		}

		q := 1.0
		parseKeyValPairs(params, ";", func(key, value string) {
			if key != "q" {
				return
			}
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 && v <= 1 {
				q = v
			}
		})
		ranges[mediaType] = q
	}
	return ranges
}

// parseKeyValPairs parses sep-separated key=value directives.
// For each key=value pair found, it calls fn with the key and value.
func parseKeyValPairs(header, sep string, fn func(key, value string)) {
	for pair := range strings.SplitSeq(header, sep) {
		pair = strings.TrimSpace(pair)
		if key, value, found := strings.Cut(pair, "="); found {
			fn(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value))
		}
	}
}
