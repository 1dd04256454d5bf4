package profile

import (
	"strings"

	"golang.org/x/text/language"
)

// bibliographic maps ISO 639-2/T codes to the /B form Matroska stores and
// ffmpeg reports, for the languages where the two differ.
var bibliographic = map[string]string{
	"sqi": "alb", "hye": "arm", "eus": "baq", "mya": "bur", "zho": "chi",
	"ces": "cze", "nld": "dut", "fra": "fre", "kat": "geo", "deu": "ger",
	"ell": "gre", "isl": "ice", "mkd": "mac", "mri": "mao", "msa": "may",
	"fas": "per", "ron": "rum", "slk": "slo", "bod": "tib", "cym": "wel",
}

// NormalizeLanguage converts a profile language code to the three-letter
// form found in probe text. Two-letter ISO 639-1 codes are expanded; any
// other code is lowercased and returned as is.
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != 2 {
		return code
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return code
	}
	iso3 := base.ISO3()
	if b, ok := bibliographic[iso3]; ok {
		return b
	}
	return iso3
}

func normalizeLanguages(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if n := NormalizeLanguage(code); n != "" {
			out = append(out, n)
		}
	}
	return out
}
