package store

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"organ-go/internal/content"
	"organ-go/internal/docsync"
	"organ-go/internal/message"
)

// Event summarizes one successful mutation for the change-notification
// sink. Fields beyond Operation are filled in only when the message
// addressed them.
type Event struct {
	Operation   string
	ProjectType string
	ProjectID   string
	Collection  string
	FileID      string
}

// EventSink receives one Event per successful mutating message. A nil sink
// disables notification.
type EventSink func(Event)

// Actor is the single message-processing entry point. It serializes access
// to the Store: one message is processed fully before the next begins, and
// every message yields exactly one response.
type Actor struct {
	mu     sync.Mutex
	store  *Store
	logger content.Logger
	sink   EventSink
}

// NewActor creates an Actor over the given store. The sink may be nil.
func NewActor(store *Store, logger content.Logger, sink EventSink) *Actor {
	return &Actor{store: store, logger: logger, sink: sink}
}

// Store returns the underlying store. Intended for the composition root and
// tests; concurrent direct access bypasses the actor's serialization.
func (a *Actor) Store() *Store { return a.store }

// ProcessJSON decodes one message from JSON, processes it, and encodes the
// response. A message that cannot be decoded yields an error response, not
// a transport failure: callers always receive a definitive answer.
func (a *Actor) ProcessJSON(data []byte) []byte {
	var msg message.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return mustMarshal(message.Errorf("failed to parse message: %v", err))
	}
	return mustMarshal(a.Process(msg))
}

func mustMarshal(r message.Response) []byte {
	data, err := json.Marshal(r)
	if err != nil {
		// Payloads are built from plain maps, slices and strings; this is
		// unreachable unless a payload builder regresses.
		return []byte(`{"Error":"failed to serialize response"}`)
	}
	return data
}

// Process dispatches one message and returns its response. Dispatch is
// synchronous and atomic per message: no message observes a half-applied
// effect of another.
func (a *Actor) Process(msg message.Message) message.Response {
	a.mu.Lock()
	defer a.mu.Unlock()

	variant := msg.Variant()
	if variant == "" {
		return message.Error("message carries no recognized variant")
	}
	a.logger.Debug("processing message", "variant", variant)

	resp := a.dispatch(msg)
	if resp.IsError() {
		a.logger.Warn("message failed", "variant", variant, "error", resp.ErrorMessage())
	}
	return resp
}

func (a *Actor) dispatch(msg message.Message) message.Response {
	switch {
	case msg.InitDefault:
		return a.initDefault()
	case msg.CreateSite != nil:
		return a.createSite(msg.CreateSite)
	case msg.GetSite:
		return a.getSite()
	case msg.CreateTheme != nil:
		return a.createTheme(msg.CreateTheme)
	case msg.GetTheme:
		return a.getTheme()
	case msg.AddCollection != nil:
		return a.addCollection(msg.AddCollection)
	case msg.GetCollection != nil:
		return a.getCollection(msg.GetCollection)
	case msg.ListCollections != nil:
		return a.listCollections(msg.ListCollections)
	case msg.CreateFile != nil:
		return a.createFile(msg.CreateFile)
	case msg.UpdateFile != nil:
		return a.updateFile(msg.UpdateFile)
	case msg.GetFile != nil:
		return a.getFile(msg.GetFile)
	case msg.ListFiles != nil:
		return a.listFiles(msg.ListFiles)
	case msg.DeleteFile != nil:
		return a.deleteFile(msg.DeleteFile)
	case msg.SaveState != nil:
		return a.saveState(msg.SaveState)
	case msg.LoadState != nil:
		return a.loadState(msg.LoadState)
	case msg.ExportProject != nil:
		return a.exportProject(msg.ExportProject)
	case msg.ImportProject != nil:
		return a.importProject(msg.ImportProject)
	case msg.InitializeDocument != nil:
		return a.initializeDocument(msg.InitializeDocument)
	case msg.GetDocument != nil:
		return a.getDocument(msg.GetDocument)
	case msg.ApplySteps != nil:
		return a.applySteps(msg.ApplySteps)
	}
	return message.Error("message carries no recognized variant")
}

func (a *Actor) emit(e Event) {
	if a.sink != nil {
		a.sink(e)
	}
}

func (a *Actor) initDefault() message.Response {
	if err := a.store.InitDefault(); err != nil {
		return message.Errorf("failed to initialize: %v", err)
	}
	a.emit(Event{Operation: "InitDefault"})
	return message.Success(map[string]any{"status": "initialized"})
}

func (a *Actor) createSite(req *message.CreateSite) message.Response {
	p, err := a.store.CreateSite(req.Name, req.ThemeID)
	if err != nil {
		return message.Errorf("failed to create site: %v", err)
	}
	a.emit(Event{Operation: "CreateSite", ProjectType: "site", ProjectID: p.ID()})
	return message.Success(projectPayload(p))
}

func (a *Actor) getSite() message.Response {
	p, err := a.store.ActiveSite()
	if err != nil {
		return message.Error("no active site found")
	}
	return message.Success(projectPayload(p))
}

func (a *Actor) createTheme(req *message.CreateTheme) message.Response {
	p, err := a.store.CreateTheme(req.Name)
	if err != nil {
		return message.Errorf("failed to create theme: %v", err)
	}
	a.emit(Event{Operation: "CreateTheme", ProjectType: "theme", ProjectID: p.ID()})
	return message.Success(projectPayload(p))
}

func (a *Actor) getTheme() message.Response {
	p, err := a.store.ActiveTheme()
	if err != nil {
		return message.Error("no active theme found")
	}
	return message.Success(projectPayload(p))
}

func (a *Actor) addCollection(req *message.AddCollection) message.Response {
	kind, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}

	candidate := make(map[string]any, len(req.Fields))
	for name, desc := range req.Fields {
		candidate[name] = desc
	}
	model, err := content.ValidateModel(candidate)
	if err != nil {
		return message.Errorf("failed to add collection: %v", err)
	}

	col, err := p.AddCollection(req.Name, model)
	if err != nil {
		return message.Errorf("failed to add collection: %v", err)
	}
	payload, err := collectionPayload(col)
	if err != nil {
		return message.Errorf("failed to read collection: %v", err)
	}
	a.emit(Event{Operation: "AddCollection", ProjectType: string(kind), ProjectID: p.ID(), Collection: req.Name})
	return message.Success(payload)
}

func (a *Actor) getCollection(req *message.CollectionRef) message.Response {
	_, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}
	col, err := p.Collection(req.Name)
	if err != nil {
		return message.Errorf("failed to get collection: %v", err)
	}
	payload, err := collectionPayload(col)
	if err != nil {
		return message.Errorf("failed to read collection: %v", err)
	}
	return message.Success(payload)
}

func (a *Actor) listCollections(req *message.ListCollections) message.Response {
	_, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}
	cols, err := p.Collections()
	if err != nil {
		return message.Errorf("failed to list collections: %v", err)
	}
	payload, err := collectionsPayload(cols)
	if err != nil {
		return message.Errorf("failed to read collections: %v", err)
	}
	return message.Success(payload)
}

func (a *Actor) createFile(req *message.CreateFile) message.Response {
	kind, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}
	f, err := p.CreateFile(req.CollectionName, req.Name)
	if err != nil {
		return message.Errorf("failed to create file: %v", err)
	}
	payload, err := filePayload(f)
	if err != nil {
		return message.Errorf("failed to read file: %v", err)
	}
	a.emit(Event{Operation: "CreateFile", ProjectType: string(kind), ProjectID: p.ID(), Collection: req.CollectionName, FileID: f.ID()})
	return message.Success(payload)
}

func (a *Actor) updateFile(req *message.UpdateFile) message.Response {
	kind, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}
	col, err := p.Collection(req.CollectionName)
	if err != nil {
		return message.Errorf("failed to get collection: %v", err)
	}
	f, err := col.File(req.FileID)
	if err != nil {
		return message.Errorf("failed to get file: %v", err)
	}

	if err := applyUpdate(f, &req.Updates); err != nil {
		return message.Errorf("failed to update file: %v", err)
	}
	a.emit(Event{Operation: "UpdateFile", ProjectType: string(kind), ProjectID: p.ID(), Collection: req.CollectionName, FileID: f.ID()})
	return message.Success(map[string]any{"status": "updated"})
}

// applyUpdate applies exactly one update variant. The entity layer gates
// each setter on the file's declared type, so a mismatched variant surfaces
// as a validation error here.
func applyUpdate(f *content.File, u *message.FileUpdate) error {
	switch {
	case u.SetName != nil:
		return f.SetName(*u.SetName)
	case u.SetContent != nil:
		return f.SetContent(*u.SetContent)
	case u.SetBody != nil:
		return f.SetBody(*u.SetBody)
	case u.SetTitle != nil:
		return f.SetTitle(*u.SetTitle)
	case u.SetURL != nil:
		return f.SetURL(*u.SetURL)
	case u.SetMimeType != nil:
		return f.SetMimeType(*u.SetMimeType)
	case u.SetAlt != nil:
		return f.SetAlt(*u.SetAlt)
	case u.SetField != nil:
		return f.SetField(u.SetField.Name, u.SetField.Value)
	}
	return errors.New("update carries no recognized variant")
}

func (a *Actor) getFile(req *message.FileRef) message.Response {
	_, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}
	col, err := p.Collection(req.CollectionName)
	if err != nil {
		return message.Errorf("failed to get collection: %v", err)
	}
	f, err := col.File(req.FileID)
	if err != nil {
		return message.Errorf("failed to get file: %v", err)
	}
	payload, err := filePayload(f)
	if err != nil {
		return message.Errorf("failed to read file: %v", err)
	}
	return message.Success(payload)
}

func (a *Actor) listFiles(req *message.CollectionRef) message.Response {
	_, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}
	col, err := p.Collection(req.Name)
	if err != nil {
		return message.Errorf("failed to get collection: %v", err)
	}
	files, err := col.Files()
	if err != nil {
		return message.Errorf("failed to list files: %v", err)
	}
	payload, err := filesPayload(files)
	if err != nil {
		return message.Errorf("failed to read files: %v", err)
	}
	return message.Success(payload)
}

func (a *Actor) deleteFile(req *message.FileRef) message.Response {
	kind, p, resp := a.resolveProject(req.ProjectType)
	if p == nil {
		return resp
	}
	col, err := p.Collection(req.CollectionName)
	if err != nil {
		return message.Errorf("failed to get collection: %v", err)
	}
	if err := col.DeleteFile(req.FileID); err != nil {
		return message.Errorf("failed to delete file: %v", err)
	}
	a.emit(Event{Operation: "DeleteFile", ProjectType: string(kind), ProjectID: p.ID(), Collection: req.CollectionName, FileID: req.FileID})
	return message.Success(map[string]any{"status": "deleted"})
}

func (a *Actor) saveState(req *message.SaveState) message.Response {
	var kind content.ProjectKind
	if req.ProjectType != "" {
		parsed, err := content.ParseProjectKind(req.ProjectType)
		if err != nil {
			return message.Errorf("failed to save state: %v", err)
		}
		kind = parsed
	}
	if err := a.store.SaveState(kind); err != nil {
		return message.Errorf("failed to save state: %v", err)
	}
	return message.Success(map[string]any{
		"status":       "saved",
		"project_type": req.ProjectType,
	})
}

func (a *Actor) loadState(req *message.LoadState) message.Response {
	siteID, themeID, err := a.store.LoadState(req.SiteID, req.ThemeID)
	if errors.Is(err, content.ErrNothingToLoad) {
		return message.Success(map[string]any{"status": "nothing_to_load"})
	}
	if err != nil {
		return message.Errorf("failed to load state: %v", err)
	}
	return message.Success(map[string]any{
		"status":  "loaded",
		"siteId":  siteID,
		"themeId": themeID,
	})
}

func (a *Actor) exportProject(req *message.ExportProject) message.Response {
	kind, err := content.ParseProjectKind(req.ProjectType)
	if err != nil {
		return message.Errorf("failed to export project: %v", err)
	}
	snap, err := a.store.ExportProject(kind)
	if err != nil {
		return message.Errorf("failed to export project: %v", err)
	}
	return message.Success(snap)
}

func (a *Actor) importProject(req *message.ImportProject) message.Response {
	kind, err := content.ParseProjectKind(req.ProjectType)
	if err != nil {
		return message.Errorf("failed to import project: %v", err)
	}
	p, err := a.store.ImportProject(req.Data, req.ID, kind,
		time.UnixMilli(req.Created).UTC(), time.UnixMilli(req.Updated).UTC())
	if err != nil {
		return message.Errorf("failed to import %s: %v", kind, err)
	}
	a.emit(Event{Operation: "ImportProject", ProjectType: string(kind), ProjectID: p.ID()})
	return message.Success(projectPayload(p))
}

func (a *Actor) initializeDocument(req *message.InitializeDocument) message.Response {
	doc, err := a.store.Documents().Initialize(req.DocumentID, req.Content)
	if err != nil {
		return message.Errorf("failed to initialize document: %v", err)
	}
	return a.documentPayload(doc, nil)
}

func (a *Actor) getDocument(req *message.GetDocument) message.Response {
	doc, err := a.store.Documents().Get(req.DocumentID)
	if err != nil {
		return message.Errorf("failed to get document: %v", err)
	}
	since := 0
	if req.SinceVersion != nil {
		since = *req.SinceVersion
	}
	return a.documentPayload(doc, doc.StepsSince(since))
}

func (a *Actor) applySteps(req *message.ApplySteps) message.Response {
	doc, err := a.store.Documents().Get(req.DocumentID)
	if err != nil {
		return message.Errorf("failed to apply steps: %v", err)
	}

	steps := make([]docsync.Step, len(req.Steps))
	for i, s := range req.Steps {
		steps[i] = docsync.Step{Type: s.Type, From: s.From, To: s.To, Content: s.Content}
	}
	if err := doc.ApplySteps(steps, req.Version, req.ClientID); err != nil {
		return message.Errorf("failed to apply steps: %v", err)
	}
	return message.Success(map[string]any{
		"document_id": doc.ID(),
		"version":     doc.Version(),
	})
}

// documentPayload describes a document plus the given applied steps, each
// tagged with the version it produced and its origin client so callers can
// rebroadcast.
func (a *Actor) documentPayload(doc *docsync.Document, steps []docsync.AppliedStep) message.Response {
	text, err := doc.Content()
	if err != nil {
		return message.Errorf("failed to read document: %v", err)
	}
	out := make([]map[string]any, 0, len(steps))
	for _, s := range steps {
		out = append(out, map[string]any{
			"type":      s.Step.Type,
			"from":      s.Step.From,
			"to":        s.Step.To,
			"content":   s.Step.Content,
			"version":   s.Version,
			"client_id": s.ClientID,
		})
	}
	return message.Success(map[string]any{
		"document_id": doc.ID(),
		"version":     doc.Version(),
		"content":     text,
		"steps":       out,
	})
}

// resolveProject parses the wire project type and resolves the matching
// active project. On failure the returned project is nil and the response
// carries the error.
func (a *Actor) resolveProject(projectType string) (content.ProjectKind, *content.Project, message.Response) {
	kind, err := content.ParseProjectKind(projectType)
	if err != nil {
		return "", nil, message.Errorf("failed to convert project type: %v", err)
	}
	p, err := a.store.Project(kind)
	if err != nil {
		return kind, nil, message.Errorf("no active %s found", kind)
	}
	return kind, p, message.Response{}
}
