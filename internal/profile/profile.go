// Package profile loads transcode profiles and the rules that select them
// from a TOML file.
//
// A profiles file looks like:
//
//	[profiles.hevc]
//	output_options = ["-c:v", "libx265", "-crf", "22", "-c:a", "copy"]
//	extension = ".mkv"
//
//	[profiles.hevc.audio]
//	exclude = ["spa"]
//	default = "eng"
//
//	[profiles.hevc.subtitle]
//	include = ["eng"]
//
//	[[rules]]
//	name = "hd-movies"
//	profile = "hevc"
//	[rules.criteria]
//	runtime = "90-240"
//	res_height = ">720"
package profile

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	coreerrors "github.com/five82/probemap/internal/errors"
)

// TrackSelection holds the language lists for one track type.
type TrackSelection struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	Default string   `toml:"default"`
}

// Profile describes how a matched file is transcoded.
type Profile struct {
	Name          string         `toml:"-"`
	Description   string         `toml:"description"`
	InputOptions  []string       `toml:"input_options"`
	OutputOptions []string       `toml:"output_options"`
	Extension     string         `toml:"extension"`
	Audio         TrackSelection `toml:"audio"`
	Subtitle      TrackSelection `toml:"subtitle"`
}

func (p *Profile) ExcludedAudioLanguages() []string    { return p.Audio.Exclude }
func (p *Profile) ExcludedSubtitleLanguages() []string { return p.Subtitle.Exclude }
func (p *Profile) IncludedAudioLanguages() []string    { return p.Audio.Include }
func (p *Profile) IncludedSubtitleLanguages() []string { return p.Subtitle.Include }

func (p *Profile) DefaultAudioLanguage() (string, bool) {
	return p.Audio.Default, p.Audio.Default != ""
}

func (p *Profile) DefaultSubtitleLanguage() (string, bool) {
	return p.Subtitle.Default, p.Subtitle.Default != ""
}

func (p *Profile) normalize() {
	p.Audio.Include = normalizeLanguages(p.Audio.Include)
	p.Audio.Exclude = normalizeLanguages(p.Audio.Exclude)
	p.Audio.Default = NormalizeLanguage(p.Audio.Default)
	p.Subtitle.Include = normalizeLanguages(p.Subtitle.Include)
	p.Subtitle.Exclude = normalizeLanguages(p.Subtitle.Exclude)
	p.Subtitle.Default = NormalizeLanguage(p.Subtitle.Default)
}

// Rule selects a profile when every criterion matches.
type Rule struct {
	Name    string
	Profile string
	// Criteria maps attribute names to value expressions.
	Criteria map[string]string
}

// Attributes returns the criterion attribute names in sorted order.
func (r Rule) Attributes() []string {
	names := make([]string, 0, len(r.Criteria))
	for name := range r.Criteria {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type ruleFile struct {
	Name     string         `toml:"name"`
	Profile  string         `toml:"profile"`
	Criteria map[string]any `toml:"criteria"`
}

type file struct {
	Profiles map[string]*Profile `toml:"profiles"`
	Rules    []ruleFile          `toml:"rules"`
}

// Set is a loaded profiles file.
type Set struct {
	profiles map[string]*Profile
	rules    []Rule
}

// Load reads and validates a profiles file.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, coreerrors.NewProfileError("open profiles", err)
	}
	defer f.Close()

	var raw file
	decoder := toml.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return nil, coreerrors.NewProfileError(fmt.Sprintf("parse %s", path), err)
	}
	return newSet(raw)
}

func newSet(raw file) (*Set, error) {
	set := &Set{profiles: make(map[string]*Profile, len(raw.Profiles))}

	for name, p := range raw.Profiles {
		if p == nil {
			p = &Profile{}
		}
		p.Name = name
		p.normalize()
		set.profiles[name] = p
	}

	for i, r := range raw.Rules {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("rule %d", i+1)
		}
		if r.Profile == "" {
			return nil, coreerrors.NewProfileError(fmt.Sprintf("rule %q does not name a profile", name), nil)
		}
		if _, ok := set.profiles[r.Profile]; !ok {
			return nil, coreerrors.NewProfileError(fmt.Sprintf("rule %q references unknown profile %q", name, r.Profile), nil)
		}

		criteria := make(map[string]string, len(r.Criteria))
		for attr, v := range r.Criteria {
			s, err := criterionString(v)
			if err != nil {
				return nil, coreerrors.NewProfileError(fmt.Sprintf("rule %q criterion %s", name, attr), err)
			}
			criteria[attr] = s
		}
		set.rules = append(set.rules, Rule{Name: name, Profile: r.Profile, Criteria: criteria})
	}

	return set, nil
}

// criterionString accepts numbers as well as quoted expressions so that
// `res_width = 1920` and `res_width = "1920"` are equivalent.
func criterionString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value %v of type %T", v, v)
	}
}

// Profile returns the named profile.
func (s *Set) Profile(name string) (*Profile, bool) {
	p, ok := s.profiles[name]
	return p, ok
}

// Lookup returns the named profile or a profile error.
func (s *Set) Lookup(name string) (*Profile, error) {
	p, ok := s.profiles[name]
	if !ok {
		return nil, coreerrors.NewProfileError(fmt.Sprintf("unknown profile %q (available: %v)", name, s.Names()), nil)
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Rules returns the rules in file order.
func (s *Set) Rules() []Rule {
	return s.rules
}
