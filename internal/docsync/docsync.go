// Package docsync manages the auxiliary rich-text documents an external
// editing surface streams incremental edits into. Documents are keyed by an
// opaque identifier and are independent of the project/collection/file
// tree. Each holds a CRDT text container and a monotonic version; a step
// batch is applied atomically and only when its version matches exactly.
package docsync

import (
	"fmt"
	"unicode/utf8"

	"github.com/automerge/automerge-go"

	"organ-go/internal/content"
)

// Step kinds.
const (
	StepInsert  = "insert"
	StepDelete  = "delete"
	StepReplace = "replace"
)

// Step is one position-addressed edit operation. Positions are rune
// offsets into the current document text: insert at From, delete [From,
// To), replace [From, To) with Content.
type Step struct {
	Type    string
	From    int
	To      int
	Content string
}

// AppliedStep is a step the document accepted, retained with the version
// it produced and the client that sent it so callers can rebroadcast.
type AppliedStep struct {
	Step     Step
	Version  int
	ClientID string
}

const textKey = "content"

// Document is one synchronized rich-text document.
type Document struct {
	id      string
	doc     *automerge.Doc
	version int
	applied []AppliedStep
}

func newDocument(id, initial string) (*Document, error) {
	doc := automerge.New()
	if err := doc.RootMap().Set(textKey, automerge.NewText(initial)); err != nil {
		return nil, fmt.Errorf("initializing document %s: %w", id, err)
	}
	if _, err := doc.Commit("initialize"); err != nil {
		return nil, fmt.Errorf("initializing document %s: %w", id, err)
	}
	return &Document{id: id, doc: doc}, nil
}

func (d *Document) ID() string { return d.id }

// Version returns the document's current version. A batch must carry
// exactly this version to be accepted.
func (d *Document) Version() int { return d.version }

func (d *Document) text() (*automerge.Text, error) {
	v, err := d.doc.RootMap().Get(textKey)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", d.id, err)
	}
	if v.Kind() != automerge.KindText {
		return nil, fmt.Errorf("%w: document %s has no text container", content.ErrNotFound, d.id)
	}
	return v.Text(), nil
}

// Content returns the current document text.
func (d *Document) Content() (string, error) {
	text, err := d.text()
	if err != nil {
		return "", err
	}
	return text.Get()
}

// StepsSince returns the applied steps with a version greater than the
// given one, in application order.
func (d *Document) StepsSince(version int) []AppliedStep {
	var out []AppliedStep
	for _, s := range d.applied {
		if s.Version > version {
			out = append(out, s)
		}
	}
	return out
}

// ApplySteps applies one batch. The batch version must equal the current
// version; a stale or future version rejects the whole batch with an error
// naming the expected version so the caller can reconcile. The whole batch
// is validated before any step touches the text, so a rejected batch leaves
// the document untouched. On success the version advances by one and every
// step is retained for rebroadcast.
func (d *Document) ApplySteps(steps []Step, version int, clientID string) error {
	if version != d.version {
		return fmt.Errorf("%w: document %s expected version %d, got %d",
			content.ErrVersionMismatch, d.id, d.version, version)
	}

	text, err := d.text()
	if err != nil {
		return err
	}
	n := text.Len()
	for i, step := range steps {
		m, err := checkStep(step, n)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		n = m
	}
	for i, step := range steps {
		if err := applyStep(text, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	if _, err := d.doc.Commit(fmt.Sprintf("steps v%d from %s", version, clientID)); err != nil {
		return fmt.Errorf("committing steps: %w", err)
	}

	d.version++
	for _, step := range steps {
		d.applied = append(d.applied, AppliedStep{Step: step, Version: d.version, ClientID: clientID})
	}
	return nil
}

// checkStep validates a step against a simulated document length n and
// returns the length after the step. Positions are rune offsets.
func checkStep(step Step, n int) (int, error) {
	if step.From < 0 || step.To < step.From || step.To > n {
		return 0, fmt.Errorf("%w: step range [%d, %d) out of bounds for length %d",
			content.ErrValidation, step.From, step.To, n)
	}

	switch step.Type {
	case StepInsert:
		return n + utf8.RuneCountInString(step.Content), nil
	case StepDelete:
		return n - (step.To - step.From), nil
	case StepReplace:
		return n - (step.To - step.From) + utf8.RuneCountInString(step.Content), nil
	default:
		return 0, fmt.Errorf("%w: unknown step type %q", content.ErrValidation, step.Type)
	}
}

func applyStep(text *automerge.Text, step Step) error {
	switch step.Type {
	case StepInsert:
		return text.Insert(step.From, step.Content)
	case StepDelete:
		return text.Delete(step.From, step.To-step.From)
	case StepReplace:
		if step.To > step.From {
			if err := text.Delete(step.From, step.To-step.From); err != nil {
				return err
			}
		}
		return text.Insert(step.From, step.Content)
	default:
		return fmt.Errorf("%w: unknown step type %q", content.ErrValidation, step.Type)
	}
}

// Registry holds the documents of one store.
type Registry struct {
	docs map[string]*Document
}

func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]*Document)}
}

// Initialize creates a document with the given initial content. Initializing
// an id that already exists is an error: the caller holds stale state and
// must fetch the existing document instead.
func (r *Registry) Initialize(id, initial string) (*Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: document id must not be empty", content.ErrValidation)
	}
	if _, exists := r.docs[id]; exists {
		return nil, fmt.Errorf("%w: document %s already initialized", content.ErrValidation, id)
	}
	doc, err := newDocument(id, initial)
	if err != nil {
		return nil, err
	}
	r.docs[id] = doc
	return doc, nil
}

// Get resolves a document by id.
func (r *Registry) Get(id string) (*Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", content.ErrNotFound, id)
	}
	return doc, nil
}
