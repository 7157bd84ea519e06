// Package dashboard holds the asset dashboard state and the actions a user can
// take on it. Every successful mutation is followed by a full reload, and a
// failed call never changes the displayed snapshot.
package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"

	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"go.uber.org/zap"
)

var (
	ErrActionInFlight  = errors.New("an action on this asset is already in progress")
	ErrNoPendingDelete = errors.New("no delete is awaiting confirmation")
)

// AssetAPI is the remote asset service. *client.Client implements it.
type AssetAPI interface {
	ListAssets(ctx context.Context) (models.AssetList, error)
	CreateAsset(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

type Notification struct {
	Level   Level
	Message string
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// State is what the dashboard displays.
type State struct {
	Assets  []models.Asset
	Stats   models.Stats
	Loading bool
	Err     error
	// PendingDelete is the id awaiting confirmation, empty when none.
	PendingDelete string
}

type Controller struct {
	api      AssetAPI
	notifier Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	state    State
	inFlight map[string]struct{}
	// fetchSeq numbers reloads; a result is applied only if it is newer than appliedSeq.
	fetchSeq   uint64
	appliedSeq uint64
	loading    int
}

func NewController(api AssetAPI, notifier Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Controller{
		api:      api,
		notifier: notifier,
		logger:   logger,
		state:    State{Assets: []models.Asset{}},
		inFlight: make(map[string]struct{}),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Assets = append([]models.Asset(nil), c.state.Assets...)
	return s
}

// Load fetches the collection and replaces the snapshot. On failure the previous
// snapshot stays visible. Results of a reload that finishes after a newer one
// are discarded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.loading++
	c.state.Loading = true
	c.mu.Unlock()

	list, err := c.api.ListAssets(ctx)

	c.mu.Lock()
	c.loading--
	c.state.Loading = c.loading > 0
	current := seq > c.appliedSeq
	if current {
		c.appliedSeq = seq
		if err != nil {
			c.state.Err = err
		} else {
			c.state.Assets = list.Assets
			if c.state.Assets == nil {
				c.state.Assets = []models.Asset{}
			}
			c.state.Stats = list.Stats
			c.state.Err = nil
		}
	}
	c.mu.Unlock()

	if err != nil {
		if current {
			c.fail("Unable to load assets", err)
		} else {
			c.logger.Debug("Discarded failure of superseded reload", zap.Error(err))
		}
		return err
	}

	return nil
}

// Add creates an asset. Empty fields are rejected without calling the service.
func (c *Controller) Add(ctx context.Context, description, serialNumber string) error {
	req := models.CreateAssetRequest{
		Description:  strings.TrimSpace(description),
		SerialNumber: strings.TrimSpace(serialNumber),
	}
	switch {
	case req.Description == "":
		return c.reject(custom_error.NewValidationError("description", "must not be empty"))
	case req.SerialNumber == "":
		return c.reject(custom_error.NewValidationError("serial_number", "must not be empty"))
	}

	if _, err := c.api.CreateAsset(ctx, req); err != nil {
		c.setErr(err)
		c.fail("Unable to add asset", err)
		return err
	}

	c.notifier.Notify(Notification{Level: LevelInfo, Message: "Asset added"})
	return c.Load(ctx)
}

// Checkout marks an In asset as Out at location.
func (c *Controller) Checkout(ctx context.Context, id, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return c.reject(custom_error.NewValidationError("location", "must not be empty"))
	}

	return c.mutate(ctx, id, canCheckout, nil, "Asset checked out", "Unable to check out asset", func() error {
		_, err := c.api.UpdateAsset(ctx, id, models.CheckoutRequest(location))
		return err
	})
}

// Checkin returns an Out asset to the warehouse.
func (c *Controller) Checkin(ctx context.Context, id string) error {
	return c.mutate(ctx, id, canCheckin, nil, "Asset checked in", "Unable to check in asset", func() error {
		_, err := c.api.UpdateAsset(ctx, id, models.CheckinRequest())
		return err
	})
}

// RequestDelete asks for confirmation before the asset is deleted.
func (c *Controller) RequestDelete(id string) error {
	c.mu.Lock()
	_, ok := c.find(id)
	if ok {
		c.state.PendingDelete = id
	}
	c.mu.Unlock()

	if !ok {
		return c.reject(custom_error.NewNotFoundError("asset", id))
	}
	return nil
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.PendingDelete = ""
}

// ConfirmDelete deletes the asset awaiting confirmation.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.state.PendingDelete
	c.mu.Unlock()

	if id == "" {
		return c.reject(ErrNoPendingDelete)
	}

	clearPending := func() {
		if c.state.PendingDelete == id {
			c.state.PendingDelete = ""
		}
	}
	return c.mutate(ctx, id, nil, clearPending, "Asset deleted", "Unable to delete asset", func() error {
		return c.api.DeleteAsset(ctx, id)
	})
}

func canCheckout(a *models.Asset) bool { return a.IsAvailable() }

func canCheckin(a *models.Asset) bool { return a.Status == metadata.StatusOut }

// mutate runs call for asset id when the asset is in the snapshot, allowed
// accepts it (nil accepts any asset) and no other action on it is running.
// accepted runs under c.mu once the action is admitted.
func (c *Controller) mutate(ctx context.Context, id string, allowed func(*models.Asset) bool, accepted func(), okMessage, failMessage string, call func() error) error {
	c.mu.Lock()
	asset, ok := c.find(id)
	if !ok {
		c.mu.Unlock()
		return c.reject(custom_error.NewNotFoundError("asset", id))
	}
	if allowed != nil && !allowed(&asset) {
		c.mu.Unlock()
		return c.reject(custom_error.NewValidationError("status", "action not available for an asset that is "+asset.Status.String()))
	}
	if _, busy := c.inFlight[id]; busy {
		c.mu.Unlock()
		return c.reject(ErrActionInFlight)
	}
	c.inFlight[id] = struct{}{}
	if accepted != nil {
		accepted()
	}
	c.mu.Unlock()

	err := call()

	c.mu.Lock()
	delete(c.inFlight, id)
	c.mu.Unlock()

	if err != nil {
		c.setErr(err)
		c.fail(failMessage, err)
		return err
	}

	c.notifier.Notify(Notification{Level: LevelInfo, Message: okMessage})
	return c.Load(ctx)
}

// find looks id up in the snapshot. Callers hold c.mu.
func (c *Controller) find(id string) (models.Asset, bool) {
	for _, a := range c.state.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return models.Asset{}, false
}

func (c *Controller) setErr(err error) {
	c.mu.Lock()
	c.state.Err = err
	c.mu.Unlock()
}

func (c *Controller) reject(err error) error {
	c.setErr(err)
	c.notifier.Notify(Notification{Level: LevelError, Message: err.Error()})
	return err
}

func (c *Controller) fail(message string, err error) {
	c.logger.Warn(message, zap.Error(err))
	c.notifier.Notify(Notification{Level: LevelError, Message: message + ": " + err.Error()})
}
