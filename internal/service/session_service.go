package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"snapquote/internal/config"
	"snapquote/internal/domain"
	"snapquote/internal/extraction"
	"snapquote/internal/matcher"
	"snapquote/internal/overlay"
	"snapquote/internal/port"
	"snapquote/internal/pricing"
	"snapquote/internal/quotation"
)

// EditInput is the DTO for a partial line edit. Nil fields are left alone.
type EditInput struct {
	Name            *string  `json:"name"`
	Quantity        *float64 `json:"quantity"`
	UnitPrice       *float64 `json:"unit_price"`
	DiscountPercent *float64 `json:"discount_percent"`
}

// EditResult reports the stored record and which fields were clamped to a
// valid range, so the client can show the coercion instead of hiding it.
type EditResult struct {
	Record        domain.EditRecord `json:"record"`
	ClampedFields []string          `json:"clamped_fields,omitempty"`
}

// RatesInput is the DTO for document-level rates.
type RatesInput struct {
	GlobalDiscountPercent *float64 `json:"global_discount_percent"`
	TaxRatePercent        *float64 `json:"tax_rate_percent"`
}

// MetaInput is the DTO for quotation metadata edits.
type MetaInput struct {
	CustomerName *string `json:"customer_name"`
	CompanyName  *string `json:"company_name"`
}

// SessionView is the session state returned to the client.
type SessionView struct {
	ID                    uuid.UUID            `json:"id"`
	Status                domain.SessionStatus `json:"status"`
	Items                 []domain.LineItem    `json:"items"`
	GlobalDiscountPercent float64              `json:"global_discount_percent"`
	TaxRatePercent        float64              `json:"tax_rate_percent"`
	Meta                  domain.QuotationMeta `json:"meta"`
	ImageURL              string               `json:"image_url,omitempty"`
	MatchNotice           string               `json:"match_notice,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// SessionService defines the quote session contract.
type SessionService interface {
	Create(ctx context.Context, userID uuid.UUID) (*SessionView, error)
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.SessionRecord, int, error)
	Extract(ctx context.Context, userID, sessionID uuid.UUID, image []byte, contentType string) (*SessionView, error)
	UpsertEdit(ctx context.Context, userID, sessionID uuid.UUID, itemNumber int, input EditInput) (*EditResult, error)
	AddItem(ctx context.Context, userID, sessionID uuid.UUID, input EditInput) (*EditResult, error)
	SetRates(ctx context.Context, userID, sessionID uuid.UUID, input RatesInput) (*SessionView, error)
	SetMeta(ctx context.Context, userID, sessionID uuid.UUID, input MetaInput) (*SessionView, error)
	Quotation(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Quotation, error)
	Finalize(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Quotation, error)
	Reset(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)
	Share(ctx context.Context, userID, sessionID uuid.UUID, toEmail, toName string) error
}

// quoteSession is the in-memory state of one editing session. No ambient
// globals: every core call goes through an explicit session object.
type quoteSession struct {
	mu        sync.Mutex
	id        uuid.UUID
	userID    uuid.UUID
	status    domain.SessionStatus
	runID     uint64
	items     []domain.LineItem
	overlay   *overlay.Store
	discount  float64
	taxRate   float64
	meta      domain.QuotationMeta
	imageKey  string
	notice    string
	createdAt time.Time
	updatedAt time.Time
}

type sessionService struct {
	extractor port.PriceListExtractor
	matcher   port.CatalogMatcher
	storage   port.ObjectStorage
	repo      port.SessionRepository
	sender    port.QuotationSender
	s3cfg     *config.S3Config
	quoteCfg  *config.QuoteConfig

	mu       sync.Mutex
	sessions map[uuid.UUID]*quoteSession
}

// NewSessionService creates a SessionService.
func NewSessionService(
	extractor port.PriceListExtractor,
	catalogMatcher port.CatalogMatcher,
	storage port.ObjectStorage,
	repo port.SessionRepository,
	sender port.QuotationSender,
	s3cfg *config.S3Config,
	quoteCfg *config.QuoteConfig,
) SessionService {
	return &sessionService{
		extractor: extractor,
		matcher:   catalogMatcher,
		storage:   storage,
		repo:      repo,
		sender:    sender,
		s3cfg:     s3cfg,
		quoteCfg:  quoteCfg,
		sessions:  make(map[uuid.UUID]*quoteSession),
	}
}

func (s *sessionService) Create(ctx context.Context, userID uuid.UUID) (*SessionView, error) {
	now := time.Now()
	sess := &quoteSession{
		id:        uuid.New(),
		userID:    userID,
		status:    domain.SessionStatusEditing,
		overlay:   overlay.NewStore(),
		discount:  0,
		taxRate:   s.quoteCfg.DefaultTaxRatePercent,
		meta:      domain.QuotationMeta{Date: now},
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return s.view(ctx, sess), nil
}

// session resolves a session from memory, falling back to the persisted
// snapshot so a restarted server can keep serving saved sessions.
func (s *sessionService) session(ctx context.Context, userID, sessionID uuid.UUID) (*quoteSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		if sess.userID != userID {
			return nil, domain.ErrSessionNotFound
		}
		return sess, nil
	}

	rec, err := s.repo.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess = restoreSession(rec)

	s.mu.Lock()
	if existing, ok := s.sessions[sessionID]; ok {
		sess = existing
	} else {
		s.sessions[sessionID] = sess
	}
	s.mu.Unlock()
	return sess, nil
}

func restoreSession(rec *domain.SessionRecord) *quoteSession {
	store := overlay.NewStore()
	store.Replace(rec.Edits)
	maxNum := 0
	for i := range rec.Items {
		if rec.Items[i].ItemNumber > maxNum {
			maxNum = rec.Items[i].ItemNumber
		}
	}
	store.EnsureFloor(maxNum)
	return &quoteSession{
		id:        rec.ID,
		userID:    rec.UserID,
		status:    rec.Status,
		items:     rec.Items,
		overlay:   store,
		discount:  rec.GlobalDiscountPercent,
		taxRate:   rec.TaxRatePercent,
		meta:      rec.Meta,
		imageKey:  rec.ImageKey,
		notice:    rec.MatchNotice,
		createdAt: rec.CreatedAt,
		updatedAt: rec.UpdatedAt,
	}
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess), nil
}

func (s *sessionService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.SessionRecord, int, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

// Extract runs the image through storage, OCR, normalization, and catalog
// matching. Each call starts a new run; responses belonging to a
// superseded run are discarded without touching the newer run's items.
func (s *sessionService) Extract(ctx context.Context, userID, sessionID uuid.UUID, image []byte, contentType string) (*SessionView, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.ImageTypeFromContentType(contentType); !ok {
		return nil, domain.ErrUnsupportedImage
	}
	if int64(len(image)) > s.s3cfg.MaxImageSizeMB*1024*1024 {
		return nil, domain.ErrImageTooLarge
	}

	sess.mu.Lock()
	if sess.status == domain.SessionStatusFinalized {
		sess.mu.Unlock()
		return nil, domain.ErrSessionFinalized
	}
	sess.runID++
	run := sess.runID
	sess.mu.Unlock()

	key := fmt.Sprintf("pricelists/%s/%s/%d.jpg", userID, sessionID, run)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(image),
		ContentType: contentType,
	}); err != nil {
		// Storage is for re-display only; extraction proceeds without it.
		log.Printf("sessionService.Extract: image upload failed for session %s: %v", sessionID, err)
		key = ""
	}

	raw, err := s.extractor.Extract(ctx, port.ExtractInput{ImageBytes: image, ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	items := extraction.Normalize(raw, s.quoteCfg.DefaultTaxRatePercent)

	// Apply the extraction only if no newer run has started meanwhile.
	sess.mu.Lock()
	if sess.runID != run {
		sess.mu.Unlock()
		return nil, domain.ErrStaleRun
	}
	sess.items = items
	sess.imageKey = key
	sess.notice = ""
	sess.updatedAt = time.Now()
	sess.mu.Unlock()

	maxNum := 0
	for i := range items {
		if items[i].ItemNumber > maxNum {
			maxNum = items[i].ItemNumber
		}
	}
	sess.overlay.RealignStandalones(maxNum)

	candidates, err := s.matcher.Match(ctx, items)
	if err != nil {
		// Unmatched is a degraded state, not a failure: the list stays
		// editable with zero candidates everywhere.
		log.Printf("sessionService.Extract: catalog match failed for session %s: %v", sessionID, err)
		candidates = map[int][]domain.MatchCandidate{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.runID != run {
		return nil, domain.ErrStaleRun
	}
	sess.items = matcher.Apply(items, candidates)
	if err != nil {
		sess.notice = "catalog matching unavailable; prices must be entered manually"
	}
	sess.updatedAt = time.Now()
	return s.viewLocked(ctx, sess), nil
}

func (s *sessionService) UpsertEdit(ctx context.Context, userID, sessionID uuid.UUID, itemNumber int, input EditInput) (*EditResult, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.status == domain.SessionStatusFinalized {
		sess.mu.Unlock()
		return nil, domain.ErrSessionFinalized
	}
	found := false
	for i := range sess.items {
		if sess.items[i].ItemNumber == itemNumber {
			found = true
			break
		}
	}
	sess.mu.Unlock()

	if !found {
		snapshot := sess.overlay.Snapshot()
		if _, ok := snapshot[itemNumber]; !ok {
			return nil, domain.ErrItemNotFound
		}
	}

	patch, clamped := clampPatch(input)
	rec := sess.overlay.UpsertEdit(itemNumber, patch)
	sess.touch()
	return &EditResult{Record: rec, ClampedFields: clamped}, nil
}

func (s *sessionService) AddItem(ctx context.Context, userID, sessionID uuid.UUID, input EditInput) (*EditResult, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.status == domain.SessionStatusFinalized {
		sess.mu.Unlock()
		return nil, domain.ErrSessionFinalized
	}
	sess.mu.Unlock()

	patch, clamped := clampPatch(input)
	rec := sess.overlay.AddStandalone(patch)
	sess.touch()
	return &EditResult{Record: rec, ClampedFields: clamped}, nil
}

// clampPatch applies the edit-boundary numeric policy: negatives clamp to
// 0, percentages to 0–100, and the caller learns which fields were touched.
func clampPatch(input EditInput) (overlay.Patch, []string) {
	patch := overlay.Patch{Name: input.Name}
	var clamped []string

	if input.Quantity != nil {
		v, c := pricing.ClampNonNegative(*input.Quantity)
		patch.Quantity = &v
		if c {
			clamped = append(clamped, "quantity")
		}
	}
	if input.UnitPrice != nil {
		v, c := pricing.ClampNonNegative(*input.UnitPrice)
		patch.UnitPrice = &v
		if c {
			clamped = append(clamped, "unit_price")
		}
	}
	if input.DiscountPercent != nil {
		v, c := pricing.ClampPercent(*input.DiscountPercent)
		patch.DiscountPercent = &v
		if c {
			clamped = append(clamped, "discount_percent")
		}
	}
	return patch, clamped
}

func (s *sessionService) SetRates(ctx context.Context, userID, sessionID uuid.UUID, input RatesInput) (*SessionView, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.status == domain.SessionStatusFinalized {
		return nil, domain.ErrSessionFinalized
	}
	if input.GlobalDiscountPercent != nil {
		if *input.GlobalDiscountPercent < 0 || *input.GlobalDiscountPercent > 100 {
			return nil, domain.ErrInvalidRate
		}
		sess.discount = *input.GlobalDiscountPercent
	}
	if input.TaxRatePercent != nil {
		if *input.TaxRatePercent < 0 || *input.TaxRatePercent > 100 {
			return nil, domain.ErrInvalidRate
		}
		sess.taxRate = *input.TaxRatePercent
	}
	sess.updatedAt = time.Now()
	return s.viewLocked(ctx, sess), nil
}

func (s *sessionService) SetMeta(ctx context.Context, userID, sessionID uuid.UUID, input MetaInput) (*SessionView, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if input.CustomerName != nil {
		sess.meta.CustomerName = *input.CustomerName
	}
	if input.CompanyName != nil {
		sess.meta.CompanyName = *input.CompanyName
	}
	sess.updatedAt = time.Now()
	return s.viewLocked(ctx, sess), nil
}

func (s *sessionService) Quotation(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Quotation, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.assemble(), nil
}

func (s *sessionService) Finalize(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Quotation, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.meta.QuotationNumber == "" {
		sess.meta.QuotationNumber = quotation.NumberFor(s.quoteCfg.NumberPrefix, time.Now())
	}
	sess.mu.Unlock()

	q := sess.assemble()
	if err := quotation.Finalize(q); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.status = domain.SessionStatusFinalized
	sess.updatedAt = time.Now()
	rec := sess.recordLocked()
	sess.mu.Unlock()

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("persisting finalized session: %w", err)
	}

	// The snapshot is now the source of truth; later reads restore from it
	// instead of pinning the session in memory for the life of the process.
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return q, nil
}

func (s *sessionService) Reset(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.overlay.Reset()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	// An extraction still in flight must not repopulate the cleared session.
	sess.runID++
	sess.items = nil
	sess.imageKey = ""
	sess.notice = ""
	sess.status = domain.SessionStatusEditing
	sess.updatedAt = time.Now()
	return s.viewLocked(ctx, sess), nil
}

func (s *sessionService) Share(ctx context.Context, userID, sessionID uuid.UUID, toEmail, toName string) error {
	sess, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	q := sess.assemble()
	if err := quotation.Finalize(q); err != nil {
		return err
	}
	if err := s.sender.SendQuotation(ctx, toEmail, toName, q); err != nil {
		log.Printf("sessionService.Share: send failed for session %s: %v", sessionID, err)
		return domain.ErrShareFailed
	}
	return nil
}

// assemble merges the overlay over the base items and recomputes totals.
func (sess *quoteSession) assemble() *domain.Quotation {
	edits := sess.overlay.Snapshot()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	merged := overlay.Merge(sess.items, edits)
	return quotation.Assemble(merged, sess.discount, sess.taxRate, sess.meta)
}

func (sess *quoteSession) touch() {
	sess.mu.Lock()
	sess.updatedAt = time.Now()
	sess.mu.Unlock()
}

func (sess *quoteSession) recordLocked() *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:                    sess.id,
		UserID:                sess.userID,
		Status:                sess.status,
		Items:                 sess.items,
		Edits:                 sess.overlay.Snapshot(),
		GlobalDiscountPercent: sess.discount,
		TaxRatePercent:        sess.taxRate,
		Meta:                  sess.meta,
		ImageKey:              sess.imageKey,
		MatchNotice:           sess.notice,
		CreatedAt:             sess.createdAt,
		UpdatedAt:             sess.updatedAt,
	}
}

func (s *sessionService) view(ctx context.Context, sess *quoteSession) *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.viewLocked(ctx, sess)
}

// viewLocked builds the client-facing state; sess.mu must be held.
func (s *sessionService) viewLocked(ctx context.Context, sess *quoteSession) *SessionView {
	merged := overlay.Merge(sess.items, sess.overlay.Snapshot())

	imageURL := ""
	if sess.imageKey != "" {
		url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, sess.imageKey, s.s3cfg.PresignExpirySec)
		if err != nil {
			log.Printf("sessionService: presign failed for %s: %v", sess.imageKey, err)
		} else {
			imageURL = url
		}
	}

	return &SessionView{
		ID:                    sess.id,
		Status:                sess.status,
		Items:                 merged,
		GlobalDiscountPercent: sess.discount,
		TaxRatePercent:        sess.taxRate,
		Meta:                  sess.meta,
		ImageURL:              imageURL,
		MatchNotice:           sess.notice,
		CreatedAt:             sess.createdAt,
		UpdatedAt:             sess.updatedAt,
	}
}
