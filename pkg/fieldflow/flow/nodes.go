package flow

import (
	"net/http"
	"sort"
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/agent"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/classify"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/expr"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/extract"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/template"
)

// nodes bundles the services every step shares. One instance backs one
// compiled graph, so everything here must be safe for concurrent turns.
type nodes struct {
	def        *agent.Definition
	classifier *classify.Classifier
	extractor  *extract.Extractor
	fast       *extract.Regex
	eval       *expr.Evaluator
	expander   *template.Expander
	hooks      *HookRegistry
	httpClient *http.Client
	settings   Settings
}

func newNodes(def *agent.Definition, client llm.Client, settings Settings, hooks *HookRegistry, httpClient *http.Client) *nodes {
	n := &nodes{
		def:        def,
		classifier: classify.New(client, classify.WithTimeout(settings.ClassificationTimeout)),
		fast:       extract.NewRegex(),
		eval:       expr.New(),
		expander:   newExpander(),
		hooks:      hooks,
		httpClient: httpClient,
		settings:   settings,
	}
	if client != nil {
		n.extractor = extract.NewExtractor(client, extract.WithTimeout(settings.ExtractionTimeout))
	}
	if n.hooks == nil {
		n.hooks = NewHookRegistry()
	}
	if n.httpClient == nil {
		n.httpClient = &http.Client{Timeout: settings.WebhookTimeout}
	}
	return n
}

// isOptionalField reports whether the named field is optional in the
// agent definition. Skip handling keys on this rather than on
// OptionalMode, so a conditional field activated late can never be
// skipped.
func (n *nodes) isOptionalField(name string) bool {
	for _, f := range n.def.OptionalFields() {
		if f.Name == name {
			return true
		}
	}
	return false
}

// missingRequired returns the required field names not yet collected,
// in definition order.
func (n *nodes) missingRequired(s state.Snapshot) []string {
	var missing []string
	for _, f := range n.def.RequiredFields() {
		if !s.FieldCollected(f.Name) {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// missingConditionals returns conditional field names whose condition
// holds against the collected values and which are not yet collected.
func (n *nodes) missingConditionals(ctx fieldflow.Context, s state.Snapshot) []string {
	var missing []string
	for _, f := range n.def.ConditionalFields() {
		if s.FieldCollected(f.Name) {
			continue
		}
		active, err := n.eval.Evaluate(f.Condition, s.Collected)
		if err != nil {
			// An unusable condition never activates its field.
			ctx.Logger().Warn("condition skipped",
				"field", f.Name, "condition", f.Condition, "error", err)
			continue
		}
		if !active {
			continue
		}
		missing = append(missing, f.Name)
	}
	return missing
}

// nextOptional returns the first optional field not collected and not
// declined, or empty when none remain.
func (n *nodes) nextOptional(s state.Snapshot) string {
	for _, f := range n.def.OptionalFields() {
		if s.FieldCollected(f.Name) || s.HasDeclined(f.Name) {
			continue
		}
		return f.Name
	}
	return ""
}

// stillMissingSpecs returns the specs of every field worth extracting
// this turn: missing required and active conditional fields, plus the
// expected field itself when it is optional.
func (n *nodes) stillMissingSpecs(ctx fieldflow.Context, s state.Snapshot) []agent.FieldSpec {
	names := append(n.missingRequired(s), n.missingConditionals(ctx, s)...)
	if s.ExpectedField != "" {
		found := false
		for _, name := range names {
			if name == s.ExpectedField {
				found = true
				break
			}
		}
		if !found {
			names = append(names, s.ExpectedField)
		}
	}
	specs := make([]agent.FieldSpec, 0, len(names))
	for _, name := range names {
		if f, ok := n.def.FieldByName(name); ok {
			specs = append(specs, f)
		}
	}
	return specs
}

// fieldsLoaded reports whether the snapshot already carries the agent's
// field roadmap.
func fieldsLoaded(s state.Snapshot) bool {
	return len(s.RequiredFields)+len(s.OptionalFields)+len(s.ConditionalFields) > 0
}

// displayName turns a snake_case field name into a user-facing label.
func displayName(fieldName string) string {
	words := strings.Split(fieldName, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// sortedErrorField picks a deterministic field from the validation
// error map, preferring the one the question asked about.
func sortedErrorField(s state.Snapshot) string {
	if _, ok := s.ValidationErrors[s.ExpectedField]; ok {
		return s.ExpectedField
	}
	names := make([]string, 0, len(s.ValidationErrors))
	for name := range s.ValidationErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
