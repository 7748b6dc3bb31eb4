package session

import (
	"context"
	"log"
	"sync"

	"idreview/internal/domain"
	"idreview/internal/history"
	"idreview/internal/port"
	"idreview/internal/preview"
)

// Options tunes a Controller.
type Options struct {
	// MaxFileBytes caps uploads; zero disables the check.
	MaxFileBytes int64
	Observer     port.SessionObserver
}

// Controller owns one editor session. State changes go through Reduce under mu;
// mu is never held across a gateway call.
type Controller struct {
	gateway  port.RemoteGateway
	history  *history.Cache
	previews port.PreviewStore
	opts     Options

	mu     sync.Mutex
	state  State
	closed bool
}

// NewController creates a controller in the empty state.
func NewController(gateway port.RemoteGateway, cache *history.Cache, previews port.PreviewStore, opts Options) *Controller {
	return &Controller{
		gateway:  gateway,
		history:  cache,
		previews: previews,
		opts:     opts,
	}
}

// Start is the session-start callback: it loads the recent history.
func (c *Controller) Start(ctx context.Context) error {
	return c.RefreshHistory(ctx)
}

// Close tears the session down and releases any live preview. Later calls fail with ErrSessionClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.applyLocked(Reset{})
	c.closed = true
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SelectFile makes f the current unsaved file, replacing any loaded document.
func (c *Controller) SelectFile(f *domain.LocalFile) error {
	if err := preview.Validate(f, c.opts.MaxFileBytes); err != nil {
		c.apply(Rejected{Message: "Upload Error: " + err.Error()})
		return err
	}
	handle, err := c.previews.Create(f.Name, f.ContentType, f.Data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.releasePreview(handle)
		return domain.ErrSessionClosed
	}
	c.applyLocked(FileSelected{File: f, Preview: &handle})
	return nil
}

// ClearFile drops the selected file, if any.
func (c *Controller) ClearFile() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrSessionClosed
	}
	if c.state.File != nil {
		c.applyLocked(FileCleared{})
	}
	return nil
}

// SubmitExtract sends the selected file to the classifier. On failure the file stays
// selected so the user can retry.
func (c *Controller) SubmitExtract(ctx context.Context) (*domain.Document, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if c.state.Loading {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	if c.state.File == nil {
		c.applyLocked(Rejected{Message: msgSelectFile})
		c.mu.Unlock()
		return nil, domain.ErrNoFileSelected
	}
	file := c.state.File
	c.applyLocked(ExtractStarted{})
	gen := c.state.Generation
	c.mu.Unlock()

	defer c.apply(LoadingDone{})

	doc, err := c.gateway.Classify(ctx, port.ClassifyInput{
		Filename:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		log.Printf("session.Controller.SubmitExtract: classify %q failed: %v", file.Name, err)
		c.apply(ExtractFailed{Generation: gen, Err: err})
		return nil, err
	}
	c.apply(ExtractSucceeded{Generation: gen, Document: doc})
	c.refreshHistory(ctx)
	return doc, nil
}

// EditField stores a user edit in the buffer.
func (c *Controller) EditField(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrSessionClosed
	}
	if c.state.Document == nil {
		return domain.ErrNoDocument
	}
	if _, ok := c.state.Buffer.Value(key); !ok {
		return domain.ErrUnknownField
	}
	c.applyLocked(FieldEdited{Key: key, Value: value})
	return nil
}

// SaveChanges sends the buffer to the server. It sends nothing unless a document is
// loaded and the buffer is dirty. A failed save keeps the buffer.
func (c *Controller) SaveChanges(ctx context.Context) (*domain.Document, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if c.state.Saving {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	if c.state.Document == nil || c.state.Buffer == nil {
		c.applyLocked(Rejected{Message: msgNoDocument})
		c.mu.Unlock()
		return nil, domain.ErrNoDocument
	}
	if !c.state.Dirty() {
		c.mu.Unlock()
		return nil, domain.ErrNothingToSave
	}
	id := c.state.Document.ID
	features := c.state.Buffer.Features()
	gen := c.state.Generation
	c.applyLocked(SaveStarted{})
	c.mu.Unlock()

	defer c.apply(SavingDone{})

	doc, err := c.gateway.Update(ctx, id, port.UpdateInput{Features: features})
	if err != nil {
		log.Printf("session.Controller.SaveChanges: update document %d failed: %v", id, err)
		c.apply(SaveFailed{Generation: gen, Err: err})
		return nil, err
	}
	c.apply(SaveSucceeded{Generation: gen, Document: doc})
	c.refreshHistory(ctx)
	return doc, nil
}

// LoadFromHistory makes doc current. Unsaved edits to the previous document are discarded.
func (c *Controller) LoadFromHistory(doc *domain.Document) {
	if doc == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.applyLocked(HistoryLoaded{Document: doc})
}

// SelectFromHistory loads the cached history entry with id.
func (c *Controller) SelectFromHistory(id int64) (*domain.Document, error) {
	if c.isClosed() {
		return nil, domain.ErrSessionClosed
	}
	return c.history.Select(id, c)
}

// RefreshHistory reloads the history list. It shares the busy flag with extraction.
func (c *Controller) RefreshHistory(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if c.state.Loading {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	c.applyLocked(HistoryStarted{})
	c.mu.Unlock()

	defer c.apply(LoadingDone{})
	return c.refreshHistory(ctx)
}

// History returns the cached history list.
func (c *Controller) History() []domain.Document {
	return c.history.Entries()
}

// Reset returns to the empty state.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrSessionClosed
	}
	c.applyLocked(Reset{})
	return nil
}

// Dismiss clears the error and success messages.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrSessionClosed
	}
	c.applyLocked(Dismissed{})
	return nil
}

// DisplayImage returns the bytes of the image that should be shown right now.
func (c *Controller) DisplayImage() ([]byte, string, error) {
	c.mu.Lock()
	img, ok := preview.Resolve(c.state.Preview, c.state.Document)
	c.mu.Unlock()
	if !ok {
		return nil, "", domain.ErrNoImage
	}
	if img.Source == preview.SourceLocal {
		return c.previews.Open(img.Preview.ID)
	}
	return preview.DecodeDataURI(img.DataURI)
}

func (c *Controller) refreshHistory(ctx context.Context) error {
	if _, err := c.history.Refresh(ctx); err != nil {
		log.Printf("session.Controller.refreshHistory: %v", err)
		c.apply(HistoryFailed{Err: err})
		return err
	}
	return nil
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// apply runs a continuation's event. Events for a closed session are dropped.
func (c *Controller) apply(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.applyLocked(e)
}

func (c *Controller) applyLocked(e Event) {
	prev := c.state.Preview
	c.state = Reduce(c.state, e)
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveTransition(e.Name())
	}
	if prev != nil && (c.state.Preview == nil || c.state.Preview.ID != prev.ID) {
		c.onSessionEnd(*prev)
	}
}

// onSessionEnd releases a preview handle that the state no longer references.
func (c *Controller) onSessionEnd(h port.PreviewHandle) {
	c.releasePreview(h)
	if c.opts.Observer != nil {
		c.opts.Observer.ObservePreviewReleased()
	}
}

func (c *Controller) releasePreview(h port.PreviewHandle) {
	if err := c.previews.Release(h.ID); err != nil {
		log.Printf("session.Controller: releasing preview %s: %v", h.ID, err)
	}
}
