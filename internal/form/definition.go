// internal/form/definition.go
//
// Survey – Forms subsystem: YAML definition loader.
//
// Context
//   The survey's pages, inputs, rating scale, and questions are declared in
//   YAML rather than hard-coded in templates.  A definition names the four
//   wizard pages in order (login, biodata, survey, success), the inputs on
//   each page with their inline error text, the five-point rating scale, and
//   the list of Likert questions.  A default definition is embedded in the
//   binary; operators may point `survey.definition` at their own file.
//
// Workflow
//   •  Structs mirror the YAML schema: Definition → StepDef → FieldDef, plus
//      ScaleDef and QuestionDef.
//   •  Parse validates one document; LoadDefinition reads it from disk;
//      LoadDefault parses the embedded copy.
//   •  Register / Get keep parsed definitions in an in-memory registry keyed
//      by ID so handlers and the debug module share one source of truth.
//   •  Questions, Scale, Messages, and Slots convert a definition into the
//      values the wizard and the error presenter consume.
//
//------------------------------------------------------------------------------

package form

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yanizio/survey/internal/wizard"
)

//go:embed default_survey.yaml
var defaultSurvey []byte

// scaleSize is the number of options on the agreement scale.
const scaleSize = 5

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// Definition is one survey loaded from YAML.
type Definition struct {
	ID        string        `yaml:"id"`        // Registry key, e.g. “lingkungan”.
	Title     string        `yaml:"title"`     // Page heading.
	Agency    string        `yaml:"agency"`    // Sub-heading under the title.
	Steps     []StepDef     `yaml:"steps"`     // Exactly the four wizard pages, in order.
	Scale     []ScaleDef    `yaml:"scale"`     // Five options, scores 1..5.
	Questions []QuestionDef `yaml:"questions"` // Likert items on the survey page.
}

// StepDef is one wizard page.
type StepDef struct {
	ID       string     `yaml:"id"`       // login, biodata, survey, success.
	Title    string     `yaml:"title"`    // Page heading.
	Subtitle string     `yaml:"subtitle"` // Optional lead text.
	Label    string     `yaml:"label"`    // Short name in the progress bar.
	Fields   []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input control.  Name doubles as the element
// id and the error slot key.
type FieldDef struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Type        string `yaml:"type"` // text, email, password, date, textarea
	Placeholder string `yaml:"placeholder"`
	Required    bool   `yaml:"required"`
	MaxLength   int    `yaml:"maxlength"`
	Pattern     string `yaml:"pattern"` // Client-side hint only.
	ErrorMsg    string `yaml:"error"`   // Inline message, overrides the built-in text.
}

// ScaleDef is one rating choice.
type ScaleDef struct {
	Score int    `yaml:"score"`
	Label string `yaml:"label"`
}

// QuestionDef is one Likert item.
type QuestionDef struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Definition)
)

// Register stores def under its ID, replacing any earlier copy.
func Register(def *Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[def.ID] = def
}

// Get returns a registered definition by ID.
func Get(id string) (*Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[id]
	return d, ok
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadDefinition reads and validates one YAML file.  It never touches the
// registry.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey definition %s: %w", path, err)
	}
	return Parse(raw, path)
}

// LoadDefault parses the definition compiled into the binary.
func LoadDefault() (*Definition, error) {
	return Parse(defaultSurvey, "embedded default_survey.yaml")
}

// Parse decodes and validates a definition.  src names the document in
// error messages.
func Parse(raw []byte, src string) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validateDefinition(&d, src); err != nil {
		return nil, err
	}
	return &d, nil
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Step returns the page definition for s.
func (d *Definition) Step(s wizard.Step) (*StepDef, bool) {
	for i := range d.Steps {
		if d.Steps[i].ID == s.String() {
			return &d.Steps[i], true
		}
	}
	return nil, false
}

// WizardQuestions converts the question list for wizard.Config.
func (d *Definition) WizardQuestions() []wizard.Question {
	out := make([]wizard.Question, len(d.Questions))
	for i, q := range d.Questions {
		out[i] = wizard.Question{ID: q.ID, Text: q.Text}
	}
	return out
}

// WizardScale converts the rating scale for wizard.Config.
func (d *Definition) WizardScale() []wizard.ScaleOption {
	out := make([]wizard.ScaleOption, len(d.Scale))
	for i, s := range d.Scale {
		out[i] = wizard.ScaleOption{Score: s.Score, Label: s.Label}
	}
	return out
}

// Messages returns the inline error overrides keyed by field name.
func (d *Definition) Messages() map[string]string {
	out := make(map[string]string)
	for _, s := range d.Steps {
		for _, f := range s.Fields {
			if f.ErrorMsg != "" {
				out[f.Name] = f.ErrorMsg
			}
		}
	}
	return out
}

// Slots lists every name that owns an error slot: each input, then each
// question.
func (d *Definition) Slots() []string {
	var out []string
	for _, s := range d.Steps {
		for _, f := range s.Fields {
			out = append(out, f.Name)
		}
	}
	for _, q := range d.Questions {
		out = append(out, q.ID)
	}
	return out
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateDefinition enforces the rules YAML tags cannot express.
func validateDefinition(d *Definition, src string) error {
	if d.ID == "" {
		return fmt.Errorf("survey definition %s: missing required 'id'", src)
	}

	if len(d.Steps) != len(wizard.Steps) {
		return fmt.Errorf("survey definition %s: want %d steps, got %d", src, len(wizard.Steps), len(d.Steps))
	}
	names := make(map[string]struct{})
	for i, s := range d.Steps {
		if want := wizard.Steps[i].String(); s.ID != want {
			return fmt.Errorf("survey definition %s: step %d is %q, want %q", src, i+1, s.ID, want)
		}
		for fi := range s.Fields {
			f := &s.Fields[fi]
			if err := validateField(f, src); err != nil {
				return err
			}
			if _, dup := names[f.Name]; dup {
				return fmt.Errorf("survey definition %s: duplicate field name '%s'", src, f.Name)
			}
			names[f.Name] = struct{}{}
		}
	}

	if len(d.Scale) != scaleSize {
		return fmt.Errorf("survey definition %s: scale needs %d options, got %d", src, scaleSize, len(d.Scale))
	}
	for i, s := range d.Scale {
		if s.Score != i+1 {
			return fmt.Errorf("survey definition %s: scale option %d has score %d", src, i+1, s.Score)
		}
		if s.Label == "" {
			return fmt.Errorf("survey definition %s: scale option %d missing 'label'", src, i+1)
		}
	}

	if len(d.Questions) == 0 {
		return errors.New("survey definition " + src + ": no questions")
	}
	texts := make(map[string]struct{})
	for _, q := range d.Questions {
		if q.ID == "" || q.Text == "" {
			return fmt.Errorf("survey definition %s: question needs both 'id' and 'text'", src)
		}
		if _, dup := names[q.ID]; dup {
			return fmt.Errorf("survey definition %s: duplicate name '%s'", src, q.ID)
		}
		if _, dup := texts[q.Text]; dup {
			return fmt.Errorf("survey definition %s: duplicate question text %q", src, q.Text)
		}
		names[q.ID] = struct{}{}
		texts[q.Text] = struct{}{}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, src string) error {
	if f.Name == "" {
		return fmt.Errorf("survey definition %s: field missing 'name'", src)
	}
	if f.Label == "" {
		return fmt.Errorf("survey definition %s: field '%s' missing 'label'", src, f.Name)
	}
	switch f.Type {
	case "text", "email", "password", "date", "textarea":
	case "":
		return fmt.Errorf("survey definition %s: field '%s' missing 'type'", src, f.Name)
	default:
		return fmt.Errorf("survey definition %s: field '%s' has unsupported type %q", src, f.Name, f.Type)
	}
	if f.Pattern != "" {
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return fmt.Errorf("survey definition %s: field '%s' invalid regex pattern: %v", src, f.Name, err)
		}
	}
	if f.MaxLength < 0 {
		return fmt.Errorf("survey definition %s: field '%s' maxlength cannot be negative", src, f.Name)
	}
	return nil
}
