package catalog

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ornament-catalog/models"
	"ornament-catalog/utils"
)

// PurchaseNotice is shown to the user after a successful purchase
const PurchaseNotice = "Purchase complete!"

// Credential is the bearer token passed to every backend call
type Credential string

// Backend is the remote service that stores icons, users and purchases
type Backend interface {
	FetchIcons(ctx context.Context, cred Credential) ([]models.Icon, error)
	FetchCurrentUser(ctx context.Context, cred Credential) (*models.CurrentUser, error)
	Purchase(ctx context.Context, cred Credential, iconID int64) error
	CreateIcon(ctx context.Context, cred Credential, req models.CreateIconRequest) (*models.Icon, error)
}

// Journal records resolved purchases and created icons
type Journal interface {
	Record(ctx context.Context, event models.PurchaseEvent) error
}

// Options configures a Session
type Options struct {
	AssetBaseURL string
	AddSlotImage string
	Journal      Journal      // Optional
	OnNotice     func(string) // Optional, called outside the session lock
}

// Session is one mounted catalog view for one user.
// Every event is applied under mu; backend calls are made with mu released
// and their results are applied in a single critical section.
type Session struct {
	id         string
	credential Credential
	backend    Backend
	journal    Journal
	onNotice   func(string)

	mu        sync.Mutex
	store     *Store
	balance   Balance
	selection Selection
	pages     Pagination
	purchase  *PurchaseFlow
	upload    *UploadFlow
	notice    string
	// stale is set while the last catalog fetch failed
	stale bool
}

// NewSession creates an empty Session; call Refresh to populate it
func NewSession(cred Credential, backend Backend, opts Options) *Session {
	s := &Session{
		id:         uuid.NewString(),
		credential: cred,
		backend:    backend,
		journal:    opts.Journal,
		onNotice:   opts.OnNotice,
		store:      NewStore(opts.AssetBaseURL, opts.AddSlotImage),
		purchase:   NewPurchaseFlow(),
		upload:     NewUploadFlow(),
	}
	s.pages.Clamp(s.store.Len())
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Refresh fetches the catalog and the balance independently.
// A failed fetch leaves the corresponding state untouched.
func (s *Session) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.RefreshCatalog(ctx) })
	g.Go(func() error { return s.RefreshBalance(ctx) })
	return g.Wait()
}

// RefreshCatalog replaces the records with a fresh backend copy
func (s *Session) RefreshCatalog(ctx context.Context) error {
	log.Printf("🔍 RefreshCatalog: session=%s", s.id)
	icons, err := s.backend.FetchIcons(ctx, s.credential)
	if err != nil {
		log.Printf("❌ RefreshCatalog: Failed to fetch icons: %v", err)
		s.mu.Lock()
		s.stale = true
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.stale = false
	s.store.Load(icons)
	s.pages.Clamp(s.store.Len())
	s.mu.Unlock()

	log.Printf("✓ RefreshCatalog: Loaded %d icons", len(icons))
	return nil
}

// RefreshBalance overwrites the balance with the backend value
func (s *Session) RefreshBalance(ctx context.Context) error {
	user, err := s.backend.FetchCurrentUser(ctx, s.credential)
	if err != nil {
		log.Printf("❌ RefreshBalance: Failed to fetch current user: %v", err)
		return err
	}

	s.mu.Lock()
	s.balance.Set(user.Reward)
	s.mu.Unlock()

	log.Printf("💰 RefreshBalance: balance=%d", user.Reward)
	return nil
}

// Select applies a tap on the ornament with the given id
func (s *Session) Select(id int64) (Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.store.Lookup(id)
	if !ok {
		return "", ErrUnknownOrnament
	}
	s.notice = ""

	signal := s.selection.Select(rec, s.store.IsLocked(id))
	if signal == SignalRequiresUnlock {
		if err := s.purchase.Open(rec); err != nil {
			return "", err
		}
		log.Printf("💰 Select: Ornament %d requires unlock (price=%d)", id, rec.Price)
	}
	return signal, nil
}

// NextPage moves to the next page if there is one
func (s *Session) NextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages.Next()
}

// PreviousPage moves to the previous page if there is one
func (s *Session) PreviousPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages.Previous()
}

// ConfirmPurchase submits the purchase awaiting confirmation.
// On success the unlock, the debit and the selection are applied together.
func (s *Session) ConfirmPurchase(ctx context.Context) error {
	s.mu.Lock()
	target, gen, err := s.purchase.Begin(s.balance.Amount())
	s.mu.Unlock()
	if err != nil {
		log.Printf("❌ ConfirmPurchase: %v", err)
		return err
	}

	log.Printf("💰 ConfirmPurchase: Purchasing icon %d for %d", target.ID, target.Price)
	callErr := s.backend.Purchase(ctx, s.credential, target.ID)

	s.mu.Lock()
	_, outcome := s.purchase.Resolve(gen, callErr)
	var balanceAfter int64
	if outcome == OutcomeResolved {
		s.store.MarkUnlocked(target.ID)
		s.balance.Debit(target.Price)
		s.selection.Set(target.ID)
		s.notice = PurchaseNotice
		balanceAfter = s.balance.Amount()
	}
	s.mu.Unlock()

	switch outcome {
	case OutcomeFailed:
		log.Printf("❌ ConfirmPurchase: Failed to purchase icon %d: %v", target.ID, callErr)
		return callErr
	case OutcomeStale:
		log.Printf("⚠️  ConfirmPurchase: Purchase of icon %d settled after cancel, ignoring (err=%v)", target.ID, callErr)
		return callErr
	}

	log.Printf("✅ ConfirmPurchase: Icon %d unlocked, balance=%d", target.ID, balanceAfter)
	s.record(ctx, target, models.PurchaseEventKindPurchase, balanceAfter)
	s.notify(PurchaseNotice)
	return nil
}

// CancelPurchase closes the purchase dialog without side effects
func (s *Session) CancelPurchase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchase.Cancel()
}

// SupplyImage hands the image picked by the user to the upload flow and opens the name entry
func (s *Session) SupplyImage(img models.UploadImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.upload.SupplyImage(img); err != nil {
		return err
	}
	pending := s.upload.Pending()
	s.store.SetPendingImage(pending.Image)
	log.Printf("📸 SupplyImage: Image acquired (%s, %d bytes)", img.FileName, len(img.Data))
	return s.upload.OpenNaming()
}

// SubmitUploadName names the pending image and creates the icon.
// On success the new icon is offered in the purchase dialog and the catalog is refetched.
func (s *Session) SubmitUploadName(ctx context.Context, name string) error {
	s.mu.Lock()
	req, gen, err := s.upload.Begin(name)
	if err != nil && s.upload.State() == UploadIdle {
		s.store.SetPendingImage(nil)
	}
	s.mu.Unlock()
	if err != nil {
		log.Printf("❌ SubmitUploadName: %v", err)
		return err
	}

	log.Printf("📤 SubmitUploadName: Creating icon %q", req.Name)
	icon, callErr := s.backend.CreateIcon(ctx, s.credential, req)

	s.mu.Lock()
	outcome := s.upload.Resolve(gen, callErr)
	var rec models.OrnamentRecord
	if outcome == OutcomeResolved {
		s.store.SetPendingImage(nil)
		rec = models.OrnamentRecord{
			ID:    icon.IconID,
			Image: s.store.imageURL(icon.IconPath),
			Name:  icon.IconName,
			Price: icon.Price,
		}
		if rec.Name == "" {
			rec.Name = req.Name
		}
		if err := s.purchase.Open(rec); err != nil {
			log.Printf("⚠️  SubmitUploadName: Could not open purchase for icon %d: %v", rec.ID, err)
		}
	} else if outcome == OutcomeFailed && s.upload.State() == UploadIdle {
		// The image was refused; the upload tile goes back to its placeholder
		s.store.SetPendingImage(nil)
	}
	balance := s.balance.Amount()
	s.mu.Unlock()

	switch outcome {
	case OutcomeFailed:
		log.Printf("❌ SubmitUploadName: Failed to create icon: %v", callErr)
		return callErr
	case OutcomeStale:
		log.Printf("⚠️  SubmitUploadName: Upload settled after cancel, ignoring (err=%v)", callErr)
		return callErr
	}

	log.Printf("✅ SubmitUploadName: Created icon %d", rec.ID)
	s.record(ctx, rec, models.PurchaseEventKindUpload, balance)
	// The new icon is already in the purchase dialog. A failed refetch marks the
	// view stale (CatalogView.Stale) until the next successful refresh.
	if err := s.RefreshCatalog(ctx); err != nil {
		log.Printf("⚠️  SubmitUploadName: Catalog refetch failed, view is stale")
	}
	return nil
}

// CancelUpload drops the pending image and the selection
func (s *Session) CancelUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload.Cancel()
	s.store.SetPendingImage(nil)
	s.selection.Clear()
}

// ConfirmSelection returns the selected ornament for the caller's onSelect
func (s *Session) ConfirmSelection() (models.OrnamentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.selection.SelectedID()
	if id == nil {
		return models.OrnamentRecord{}, ErrNothingSelected
	}
	rec, ok := s.store.Lookup(*id)
	if !ok {
		return models.OrnamentRecord{}, ErrUnknownOrnament
	}
	if s.store.IsLocked(*id) {
		return models.OrnamentRecord{}, Precondition("confirm", "ornament is locked")
	}
	return rec, nil
}

// Close resets the ephemeral state of the view
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchase.Cancel()
	s.upload.Cancel()
	s.store.SetPendingImage(nil)
	s.selection.Clear()
	s.pages.Reset()
	s.notice = ""
}

// View returns the state of the current page. A pending notice is delivered once.
func (s *Session) View() models.CatalogView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := models.CatalogView{
		SessionID:      s.id,
		Balance:        s.balance.Amount(),
		BalanceLabel:   utils.FormatCoins(s.balance.Amount()),
		PageIndex:      s.pages.Index(),
		PageCount:      s.pages.PageCount(),
		Tiles:          s.tiles(s.pages.Visible(s.store.Records())),
		SelectedID:     s.selection.SelectedID(),
		ConfirmEnabled: s.selection.ConfirmEnabled(),
		Purchase: models.PurchaseView{
			State:     string(s.purchase.State()),
			Target:    s.purchase.Target(),
			LastError: UserMessage(s.purchase.LastError()),
		},
		Upload: models.UploadView{
			State:     string(s.upload.State()),
			Name:      s.upload.Pending().Name,
			HasImage:  s.upload.Pending().Image != nil,
			LastError: UserMessage(s.upload.LastError()),
		},
		Notice: s.notice,
		Stale:  s.stale,
	}
	s.notice = ""
	return view
}

// Sheet returns every page of the catalog for printing
func (s *Session) Sheet() models.CatalogSheetData {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.store.Records()
	count := PageCount(len(records))
	pages := make([][]models.Tile, 0, count)
	for i := 0; i < count; i++ {
		pages = append(pages, s.tiles(PageSlice(records, i)))
	}
	return models.CatalogSheetData{
		Pages:        pages,
		PageCount:    count,
		BalanceLabel: utils.FormatCoins(s.balance.Amount()),
	}
}

func (s *Session) tiles(records []models.OrnamentRecord) []models.Tile {
	tiles := make([]models.Tile, 0, len(records))
	for _, rec := range records {
		tiles = append(tiles, models.Tile{
			OrnamentRecord: rec,
			Locked:         s.store.IsLocked(rec.ID),
			Selected:       s.selection.IsSelected(rec.ID),
			Affordable:     s.balance.CanAfford(rec.Price),
		})
	}
	return tiles
}

func (s *Session) record(ctx context.Context, rec models.OrnamentRecord, kind string, balanceAfter int64) {
	if s.journal == nil {
		return
	}
	event := models.PurchaseEvent{
		EventID:      uuid.NewString(),
		SessionID:    s.id,
		IconID:       rec.ID,
		IconName:     rec.Name,
		Price:        rec.Price,
		Kind:         kind,
		BalanceAfter: balanceAfter,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.journal.Record(ctx, event); err != nil {
		log.Printf("⚠️  Journal: Failed to record %s of icon %d: %v", kind, rec.ID, err)
	}
}

func (s *Session) notify(msg string) {
	if s.onNotice != nil {
		s.onNotice(msg)
	}
}

// IsPrecondition reports whether err is a local validation failure
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}
