package tokenize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// faces in either reading direction plus hearts, matched against lowercased text
var emoticon = regexp.MustCompile(`^(?:[<>]?[:;=8][\-o*']?[)\](\[dp/:}{@|\\]|[)\](\[dp/:}{@|\\][\-o*']?[:;=8][<>]?|</?3)$`)

// longest emoticon in segments, e.g. > : - )
const maxEmoticonParts = 4

var genericTLDs = map[string]struct{}{
	"com": {}, "net": {}, "org": {}, "edu": {}, "gov": {}, "mil": {}, "aero": {}, "asia": {},
	"biz": {}, "cat": {}, "coop": {}, "info": {}, "int": {}, "jobs": {}, "mobi": {}, "museum": {},
	"name": {}, "post": {}, "pro": {}, "tel": {}, "travel": {}, "xxx": {},
}

var urlSchemes = map[string]struct{}{"http": {}, "https": {}, "ftp": {}}

// informal rewrites one run of segments with no whitespace between them
func informal(run []string) []string {
	if len(run) == 0 {
		return nil
	}
	run = splitInner(run)
	out := make([]string, 0, len(run))
	for i := 0; i < len(run); {
		rest := run[i:]
		n := urlLen(rest)
		if n == 0 {
			n = emoticonLen(rest)
		}
		if n == 0 {
			n = htmlTagLen(rest)
		}
		if n == 0 {
			n = arrowLen(rest)
		}
		if n == 0 {
			n = tagLen(rest, i > 0 && isWord(run[i-1]))
		}
		if n == 0 {
			n = numberLen(rest)
		}
		if n == 0 {
			n = hyphenLen(rest)
		}
		if n == 0 {
			n = ellipsisLen(rest)
		}
		if n <= 1 {
			out = append(out, run[i])
			i++
			continue
		}
		out = append(out, strings.Join(rest[:n], ""))
		i += n
	}
	return out
}

// splitInner breaks segments that Unicode rules glue at an inner colon or dot, as
// in todo:fix and pom.xml. Domains and URLs stay whole and digit.digit pairs stay
// together as decimals
func splitInner(run []string) []string {
	out := make([]string, 0, len(run)+2)
	for _, tok := range run {
		if len(tok) == 1 || !strings.ContainsAny(tok, ".:") || hasScheme(tok) {
			out = append(out, tok)
			continue
		}
		for i, piece := range strings.Split(tok, ":") {
			if i > 0 {
				out = append(out, ":")
			}
			out = appendDotted(out, piece)
		}
	}
	return out
}

func appendDotted(out []string, tok string) []string {
	if tok == "" {
		return out
	}
	if !strings.Contains(tok, ".") || isDomain(tok) {
		return append(out, tok)
	}
	parts := strings.Split(tok, ".")
	for i := 0; i < len(parts); i++ {
		if i > 0 {
			out = append(out, ".")
		}
		if i+1 < len(parts) && isDigits(parts[i]) && isDigits(parts[i+1]) {
			out = append(out, parts[i]+"."+parts[i+1])
			i++
			continue
		}
		if parts[i] != "" {
			out = append(out, parts[i])
		}
	}
	return out
}

// isDomain accepts host names ending in a generic label or any two-letter country label
func isDomain(tok string) bool {
	dot := strings.LastIndexByte(tok, '.')
	if dot <= 0 {
		return false
	}
	label := tok[dot+1:]
	if _, ok := genericTLDs[label]; ok {
		return true
	}
	return len(label) == 2 && isASCIILower(label[0]) && isASCIILower(label[1])
}

// urlLen consumes scheme:rest up to the end of the run, minus trailing punctuation.
// The slashes after the scheme are optional since delimiter stripping removes them
func urlLen(run []string) int {
	start := 0
	switch {
	case hasScheme(run[0]):
		start = 1
	case len(run) >= 3 && run[1] == ":" && isScheme(run[0]):
		start = 3
	default:
		return 0
	}
	n := len(run)
	for n > start && len(run[n-1]) == 1 && strings.ContainsAny(run[n-1], `.,;:!?)'"`) {
		n--
	}
	return n
}

func isScheme(s string) bool {
	_, ok := urlSchemes[s]
	return ok
}

// hasScheme reports a single segment such as http:example.com
func hasScheme(tok string) bool {
	i := strings.IndexByte(tok, ':')
	return i > 0 && i+1 < len(tok) && isScheme(tok[:i])
}

func emoticonLen(run []string) int {
	for n := min(len(run), maxEmoticonParts); n > 0; n-- {
		if emoticon.MatchString(strings.Join(run[:n], "")) {
			return n
		}
	}
	return 0
}

// htmlTagLen joins <tag> and </tag>
func htmlTagLen(run []string) int {
	if run[0] != "<" {
		return 0
	}
	for j := 2; j < len(run); j++ {
		if run[j] == ">" {
			return j + 1
		}
	}
	return 0
}

// arrowLen joins -> and <- with any number of dashes
func arrowLen(run []string) int {
	j := 0
	for j < len(run) && run[j] == "-" {
		j++
	}
	if j > 0 && j < len(run) && run[j] == ">" {
		return j + 1
	}
	if run[0] != "<" {
		return 0
	}
	j = 1
	for j < len(run) && run[j] == "-" {
		j++
	}
	if j == 1 {
		return 0
	}
	return j
}

// tagLen joins #topic and @handle. A handle glued to a preceding word is an
// address, not a mention
func tagLen(run []string, afterWord bool) int {
	switch run[0] {
	case "#":
		j := 0
		for j < len(run) && run[j] == "#" {
			j++
		}
		if j == len(run) || !isWord(run[j]) {
			return 0
		}
		body := utf8.RuneCountInString(run[j])
		j++
		for j+1 < len(run) && (run[j] == "-" || run[j] == "'") && isWord(run[j+1]) {
			body += 1 + utf8.RuneCountInString(run[j+1])
			j += 2
		}
		if body < 2 {
			return 0
		}
		return j
	case "@":
		if afterWord || len(run) < 2 || !isHandle(run[1]) {
			return 0
		}
		return 2
	}
	return 0
}

// numberLen joins ranges, fractions and times such as 2-3, 1/2 and 10:30
func numberLen(run []string) int {
	if len(run) < 3 || !isDigits(run[0]) || !isDigits(run[2]) {
		return 0
	}
	switch run[1] {
	case "-", "/", ":", ",":
		return 3
	}
	return 0
}

// hyphenLen joins letter words chained by single hyphens
func hyphenLen(run []string) int {
	if !isLetterWord(run[0]) {
		return 0
	}
	n := 1
	for n+1 < len(run) && run[n] == "-" && isLetterWord(run[n+1]) {
		n += 2
	}
	return n
}

func ellipsisLen(run []string) int {
	n := 0
	for n < len(run) && run[n] == "." {
		n++
	}
	if n < 2 {
		return 0
	}
	return n
}

func isWord(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isHandle(s string) bool {
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) {
			return false
		}
	}
	return s != ""
}

// isLetterWord reports letters with inner apostrophes or underscores, no digits
func isLetterWord(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if !unicode.IsLetter(first) || !unicode.IsLetter(last) {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.Is(unicode.Mn, r):
		case r == '\'' || r == '’' || r == '_':
		default:
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isASCIILower(b byte) bool { return b >= 'a' && b <= 'z' }
