// Package policy holds the versioned column-mapping and classification
// profiles. A profile pins every choice that differed between revisions of
// the commandments sheet: header candidates, fallbacks, residual columns,
// category matching and polarity.
package policy

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"mandamentos/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var builtinProfiles []byte

// DefaultProfile is used when configuration names none
const DefaultProfile = "current"

// Field names a canonical Commandment attribute
type Field string

const (
	FieldID        Field = "id"
	FieldRambam    Field = "rambam"
	FieldMode      Field = "mp"
	FieldApplies   Field = "an"
	FieldSubject   Field = "quem"
	FieldLocation  Field = "onde"
	FieldBook      Field = "book"
	FieldChapter   Field = "chapter"
	FieldVerse     Field = "verse"
	FieldReference Field = "reference"
	FieldBlock     Field = "block"
	FieldTomo      Field = "tomo"
)

var knownFields = map[Field]bool{
	FieldID: true, FieldRambam: true, FieldMode: true, FieldApplies: true,
	FieldSubject: true, FieldLocation: true, FieldBook: true, FieldChapter: true,
	FieldVerse: true, FieldReference: true, FieldBlock: true, FieldTomo: true,
}

var requiredFields = []Field{FieldID, FieldMode, FieldBlock, FieldTomo}

// ClaimPolicy decides which headers are withheld from residual content
type ClaimPolicy string

const (
	// ClaimWinner withholds only the header that supplied a field's value
	ClaimWinner ClaimPolicy = "winner"
	// ClaimCandidate withholds every header listed by any field
	ClaimCandidate ClaimPolicy = "candidate"
)

// MatchPolicy decides how a selected category is compared to record fields
type MatchPolicy string

const (
	MatchExact    MatchPolicy = "exact"
	MatchContains MatchPolicy = "contains"
)

// CategorySource selects where the category lists come from
type CategorySource string

const (
	SourceStatic  CategorySource = "static"
	SourceDynamic CategorySource = "dynamic"
)

// Polarity is the side of the positive/negative chart a record lands on
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// FieldSpec maps one canonical field to its acceptable headers
type FieldSpec struct {
	Field      Field    `yaml:"field"`
	Candidates []string `yaml:"candidates"`
	Default    string   `yaml:"default"`
}

// ResidualPolicy controls which unmapped columns become content entries
type ResidualPolicy struct {
	Claim     ClaimPolicy `yaml:"claim"`
	SkipEmpty bool        `yaml:"skip_empty"`
}

// PolarityRule classifies the mode-of-obligation column
type PolarityRule struct {
	PositiveCodes    []string `yaml:"positive_codes"`
	PositiveKeywords []string `yaml:"positive_keywords"`
	NegativeCodes    []string `yaml:"negative_codes"`
	NegativeKeywords []string `yaml:"negative_keywords"`
	Empty            Polarity `yaml:"empty"`
	Unknown          Polarity `yaml:"unknown"`
}

// HistogramRule shapes the per-tome bar chart
type HistogramRule struct {
	TopN        int    `yaml:"top_n"`
	Placeholder string `yaml:"placeholder"`
}

// Profile is one coherent policy for reading the sheet
type Profile struct {
	Name        string         `yaml:"name"`
	Version     int            `yaml:"version"`
	Description string         `yaml:"description"`
	Fields      []FieldSpec    `yaml:"fields"`
	Residual    ResidualPolicy `yaml:"residual"`
	Match       MatchPolicy    `yaml:"match"`
	Categories  CategorySource `yaml:"categories"`
	Collation   string         `yaml:"collation"`
	Polarity    PolarityRule   `yaml:"polarity"`
	Histogram   HistogramRule  `yaml:"histogram"`
}

type document struct {
	Profiles []Profile `yaml:"profiles"`
}

// Spec returns the field spec for f, if the profile maps it
func (p *Profile) Spec(f Field) (FieldSpec, bool) {
	for _, fs := range p.Fields {
		if fs.Field == f {
			return fs, true
		}
	}
	return FieldSpec{}, false
}

// Validate checks the profile for values the engine cannot act on
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.ConfigInvalid("profile name is required")
	}

	seen := make(map[Field]bool, len(p.Fields))
	for _, fs := range p.Fields {
		if !knownFields[fs.Field] {
			return errors.ConfigInvalid(fmt.Sprintf("profile %s: unknown field %q", p.Name, fs.Field))
		}
		if seen[fs.Field] {
			return errors.ConfigInvalid(fmt.Sprintf("profile %s: field %q listed twice", p.Name, fs.Field))
		}
		seen[fs.Field] = true
	}
	for _, f := range requiredFields {
		if !seen[f] {
			return errors.ConfigInvalid(fmt.Sprintf("profile %s: field %q is required", p.Name, f))
		}
	}

	switch p.Residual.Claim {
	case ClaimWinner, ClaimCandidate:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("profile %s: residual claim %q", p.Name, p.Residual.Claim))
	}
	switch p.Match {
	case MatchExact, MatchContains:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("profile %s: match policy %q", p.Name, p.Match))
	}
	switch p.Categories {
	case SourceStatic, SourceDynamic:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("profile %s: category source %q", p.Name, p.Categories))
	}
	for _, pol := range []Polarity{p.Polarity.Empty, p.Polarity.Unknown} {
		if pol != Positive && pol != Negative {
			return errors.ConfigInvalid(fmt.Sprintf("profile %s: polarity %q", p.Name, pol))
		}
	}
	if p.Histogram.TopN <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("profile %s: histogram top_n must be positive", p.Name))
	}
	return nil
}

// Parse decodes and validates a profiles document
func Parse(data []byte) (map[string]*Profile, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("malformed profiles document: %w", err))
	}
	if len(doc.Profiles) == 0 {
		return nil, errors.ConfigInvalid("profiles document lists no profiles")
	}

	out := make(map[string]*Profile, len(doc.Profiles))
	for i := range doc.Profiles {
		p := doc.Profiles[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := out[p.Name]; dup {
			return nil, errors.ConfigInvalid(fmt.Sprintf("profile %s defined twice", p.Name))
		}
		out[p.Name] = &p
	}
	return out, nil
}

// Load returns a fresh copy of the named built-in profile
func Load(name string) (*Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	all, err := Parse(builtinProfiles)
	if err != nil {
		return nil, errors.Wrap(err, "built-in profiles are invalid")
	}
	p, ok := all[name]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown profile %q (available: %s)", name, strings.Join(Names(), ", ")))
	}
	return p, nil
}

// MustLoad is Load for built-in names known at compile time
func MustLoad(name string) *Profile {
	p, err := Load(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Names lists the built-in profiles in sorted order
func Names() []string {
	var doc document
	if err := yaml.Unmarshal(builtinProfiles, &doc); err != nil {
		return nil
	}
	names := make([]string, 0, len(doc.Profiles))
	for _, p := range doc.Profiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
