package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"matterdesk/api/internal/analytics"
	"matterdesk/api/internal/auth"
	"matterdesk/api/internal/authpw"
	"matterdesk/api/internal/config"
	"matterdesk/api/internal/export"
	"matterdesk/api/internal/gitrepo"
	"matterdesk/api/internal/ingest"
	"matterdesk/api/internal/matter"
	"matterdesk/api/internal/rbac"
	"matterdesk/api/internal/search"
	"matterdesk/api/internal/session"
	"matterdesk/api/internal/store"
	"matterdesk/api/internal/tabular"
	"matterdesk/api/internal/uploads"
	"matterdesk/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserName     string
	Role         string
	ExpiresAt    time.Time
}

// ListQuery selects a subset of the matter set. Filters are keyed by
// canonical field name and match whole values case-insensitively; Q is a
// substring match over every field.
type ListQuery struct {
	Q       string
	Filters map[string]string
}

type ImportRequest struct {
	Filename  string
	Data      []byte
	Sheet     string
	Mode      string
	HasHeader bool
	Author    string
}

type ImportResult struct {
	Imported      int    `json:"imported"`
	Skipped       int    `json:"skipped"`
	Total         int    `json:"total"`
	OwnersCreated bool   `json:"ownersCreated"`
	Mode          string `json:"mode"`
}

type snapshotService interface {
	Snapshot(action, author string, files map[string][]byte) (gitrepo.CommitInfo, error)
	History(limit int) ([]gitrepo.CommitInfo, error)
}

type Service struct {
	cfg      config.Config
	matters  store.MatterStore
	owners   store.OwnerStore
	sessions session.Store
	adminPW  *authpw.Service
	git      snapshotService
	search   *search.Service
	exporter *export.Service
	archive  *uploads.Service

	// mu serializes every load-modify-save cycle; the stores themselves
	// are whole-set and do not guard against lost updates.
	mu sync.Mutex
}

func New(
	cfg config.Config,
	matters store.MatterStore,
	owners store.OwnerStore,
	sessions session.Store,
	adminPW *authpw.Service,
	git *gitrepo.Service,
	searchSvc *search.Service,
	exporter *export.Service,
	archive *uploads.Service,
) *Service {
	s := &Service{
		cfg:      cfg,
		matters:  matters,
		owners:   owners,
		sessions: sessions,
		adminPW:  adminPW,
		search:   searchSvc,
		exporter: exporter,
		archive:  archive,
	}
	if git != nil {
		s.git = git
	}
	return s
}

// Bootstrap pushes the current matter set to the search index so queries
// work immediately after a restart.
func (s *Service) Bootstrap(ctx context.Context) error {
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap load matters: %w", err)
	}
	s.reindex(matters)
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	_, err := s.matters.LoadAll(ctx)
	return err
}

// Sessions

func (s *Service) Login(ctx context.Context, name, password string) (Session, error) {
	userName := strings.TrimSpace(name)
	if userName == "" {
		userName = "User"
	}

	role := string(rbac.RoleEditor)
	if password != "" {
		if s.adminPW == nil || !s.adminPW.Enabled() {
			return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Admin password not configured", nil)
		}
		if err := s.adminPW.Verify(password); err != nil {
			return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid password", nil)
		}
		role = string(rbac.RoleAdmin)
	}

	return s.issueSession(ctx, userName, role)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	identity, err := s.sessions.Lookup(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.Revoke(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, identity.Name, identity.Role)
}

func (s *Service) issueSession(ctx context.Context, userName, role string) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Name: userName,
		Role: role,
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewToken()
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	identity := session.Identity{Name: userName, Role: role}
	if err := s.sessions.Save(ctx, auth.HashToken(refresh), identity, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserName:     userName,
		Role:         role,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(_ context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		UserName:  claims.Name,
		Role:      claims.Role,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		_ = s.sessions.Revoke(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// AdminGateEnabled reports whether an admin password is configured. Without
// one there are no admin accounts, so admin-only checks fall back to write.
func (s *Service) AdminGateEnabled() bool {
	return s.adminPW != nil && s.adminPW.Enabled()
}

// Matters

func (s *Service) ListMatters(ctx context.Context, query ListQuery) ([]matter.Matter, error) {
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query.Q))
	out := make([]matter.Matter, 0, len(matters))
	for _, m := range matters {
		if !matchesFilters(m, query.Filters) {
			continue
		}
		if needle != "" && !matchesQuery(m, needle) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func matchesFilters(m matter.Matter, filters map[string]string) bool {
	for field, want := range filters {
		if want == "" {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(m.Get(field)), strings.TrimSpace(want)) {
			return false
		}
	}
	return true
}

func matchesQuery(m matter.Matter, needle string) bool {
	for _, f := range matter.Fields {
		if strings.Contains(strings.ToLower(m.Get(f)), needle) {
			return true
		}
	}
	return false
}

func (s *Service) GetMatter(ctx context.Context, id string) (matter.Matter, error) {
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return matter.Matter{}, err
	}
	for _, m := range matters {
		if m.ID == id {
			return m, nil
		}
	}
	return matter.Matter{}, domainError(http.StatusNotFound, "MATTER_NOT_FOUND", "Matter not found", nil)
}

func (s *Service) CreateMatter(ctx context.Context, input map[string]any, author string) (matter.Matter, error) {
	var m matter.Matter
	applyMatterInput(&m, input)
	if strings.TrimSpace(m.Ref) == "" && strings.TrimSpace(m.Counterparty) == "" {
		return matter.Matter{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Ref or Counterparty is required", nil)
	}
	m.ID = util.NewID()
	deriveDateClosed(&m)

	s.mu.Lock()
	defer s.mu.Unlock()

	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return matter.Matter{}, err
	}
	matters = append(matters, m)
	if err := s.matters.SaveAll(ctx, matters); err != nil {
		return matter.Matter{}, err
	}

	s.snapshot(ctx, "create matter "+matterLabel(m), author)
	if s.search != nil {
		s.search.IndexMatter(search.RecordFor(m))
	}
	return m, nil
}

func (s *Service) UpdateMatter(ctx context.Context, id string, input map[string]any, author string) (matter.Matter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return matter.Matter{}, err
	}
	idx := indexByID(matters, id)
	if idx < 0 {
		return matter.Matter{}, domainError(http.StatusNotFound, "MATTER_NOT_FOUND", "Matter not found", nil)
	}

	m := matters[idx]
	applyMatterInput(&m, input)
	deriveDateClosed(&m)
	matters[idx] = m

	if err := s.matters.SaveAll(ctx, matters); err != nil {
		return matter.Matter{}, err
	}

	s.snapshot(ctx, "update matter "+matterLabel(m), author)
	if s.search != nil {
		s.search.IndexMatter(search.RecordFor(m))
	}
	return m, nil
}

// CloseMatter marks a matter closed as of today and fills in the cycle time
// from the received date when it can.
func (s *Service) CloseMatter(ctx context.Context, id, author string) (matter.Matter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return matter.Matter{}, err
	}
	idx := indexByID(matters, id)
	if idx < 0 {
		return matter.Matter{}, domainError(http.StatusNotFound, "MATTER_NOT_FOUND", "Matter not found", nil)
	}

	m := matters[idx]
	m.OverallStatus = "Closed"
	if m.DateClosed == "" {
		m.DateClosed = time.Now().Format("2006-01-02")
	}
	if days := ingest.CycleDays(m.DateReceived, m.DateClosed); days > 0 || m.TotalCycleTime == 0 {
		m.TotalCycleTime = days
	}
	matters[idx] = m

	if err := s.matters.SaveAll(ctx, matters); err != nil {
		return matter.Matter{}, err
	}

	s.snapshot(ctx, "close matter "+matterLabel(m), author)
	if s.search != nil {
		s.search.IndexMatter(search.RecordFor(m))
	}
	return m, nil
}

func (s *Service) DeleteMatter(ctx context.Context, id, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return err
	}
	idx := indexByID(matters, id)
	if idx < 0 {
		return domainError(http.StatusNotFound, "MATTER_NOT_FOUND", "Matter not found", nil)
	}
	label := matterLabel(matters[idx])
	matters = append(matters[:idx], matters[idx+1:]...)

	if err := s.matters.SaveAll(ctx, matters); err != nil {
		return err
	}

	s.snapshot(ctx, "delete matter "+label, author)
	if s.search != nil {
		s.search.DeleteMatter(id)
	}
	return nil
}

// Import runs the spreadsheet pipeline: read the workbook, reconcile its
// headers, build candidate records, provision owners, then merge into the
// stored set according to the requested mode.
func (s *Service) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	mode := ingest.ParseMode(req.Mode)

	sheet, err := tabular.Read(bytes.NewReader(req.Data), req.Filename, req.Sheet, req.HasHeader)
	if err != nil {
		switch {
		case errors.Is(err, tabular.ErrUnsupportedFile):
			return ImportResult{}, domainError(http.StatusUnprocessableEntity, "UNSUPPORTED_FILE", "Only .xlsx and .xlsm workbooks are supported", nil)
		case errors.Is(err, tabular.ErrSheetNotFound):
			return ImportResult{}, domainError(http.StatusNotFound, "SHEET_NOT_FOUND", "Worksheet not found", nil)
		case errors.Is(err, tabular.ErrEmptySheet):
			return ImportResult{}, domainError(http.StatusUnprocessableEntity, "EMPTY_SHEET", "Worksheet has no rows", nil)
		default:
			return ImportResult{}, fmt.Errorf("read workbook: %w", err)
		}
	}

	mapping := ingest.ReconcileHeaders(sheet.Columns)
	records := ingest.BuildRecords(sheet.Columns, sheet.Rows, mapping, util.NewID)
	if len(records) == 0 {
		return ImportResult{}, domainError(http.StatusUnprocessableEntity, "NOTHING_TO_IMPORT", "Nothing to import", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.matters.LoadAll(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	owners, err := s.owners.LoadAll(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	owners, created := ingest.ProvisionOwners(owners, records, util.NewID)
	if created {
		if err := s.owners.SaveAll(ctx, owners); err != nil {
			return ImportResult{}, err
		}
	}

	final, imported, skipped := ingest.Merge(existing, records, mode)
	if err := s.matters.SaveAll(ctx, final); err != nil {
		return ImportResult{}, err
	}

	s.snapshot(ctx, fmt.Sprintf("import %s: %d imported, %d skipped", req.Filename, imported, skipped), req.Author)
	s.reindex(final)
	if s.archive != nil {
		s.archive.Archive(ctx, req.Filename, req.Data)
	}

	return ImportResult{
		Imported:      imported,
		Skipped:       skipped,
		Total:         len(final),
		OwnersCreated: created,
		Mode:          string(mode),
	}, nil
}

// Dashboard

func (s *Service) Dashboard(ctx context.Context) (analytics.Dashboard, error) {
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return analytics.Compute(matters), nil
}

// Search

func (s *Service) SearchMatters(ctx context.Context, q search.Query) (search.Response, error) {
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return search.Response{}, err
	}
	if s.search == nil {
		results, total := search.Scan(matters, q)
		return search.Response{Results: results, Total: total, Query: q.Text}, nil
	}
	return s.search.Search(q, matters), nil
}

// Owners

func (s *Service) ListOwners(ctx context.Context) ([]matter.Owner, error) {
	owners, err := s.owners.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if owners == nil {
		owners = []matter.Owner{}
	}
	return owners, nil
}

func (s *Service) CreateOwner(ctx context.Context, name, jobTitle, function, author string) (matter.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return matter.Owner{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Owner name is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owners, err := s.owners.LoadAll(ctx)
	if err != nil {
		return matter.Owner{}, err
	}
	if ownerIndexByName(owners, name) >= 0 {
		return matter.Owner{}, domainError(http.StatusConflict, "OWNER_EXISTS", "An owner with that name already exists", nil)
	}

	owner := matter.Owner{
		ID:       util.NewID(),
		Name:     name,
		JobTitle: strings.TrimSpace(jobTitle),
		Function: strings.TrimSpace(function),
	}
	owners = append(owners, owner)
	if err := s.owners.SaveAll(ctx, owners); err != nil {
		return matter.Owner{}, err
	}

	s.snapshot(ctx, "create owner "+owner.Name, author)
	return owner, nil
}

func (s *Service) UpdateOwner(ctx context.Context, id, name, jobTitle, function, author string) (matter.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return matter.Owner{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Owner name is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owners, err := s.owners.LoadAll(ctx)
	if err != nil {
		return matter.Owner{}, err
	}
	idx := ownerIndexByID(owners, id)
	if idx < 0 {
		return matter.Owner{}, domainError(http.StatusNotFound, "OWNER_NOT_FOUND", "Owner not found", nil)
	}
	if other := ownerIndexByName(owners, name); other >= 0 && other != idx {
		return matter.Owner{}, domainError(http.StatusConflict, "OWNER_EXISTS", "An owner with that name already exists", nil)
	}

	owners[idx].Name = name
	owners[idx].JobTitle = strings.TrimSpace(jobTitle)
	owners[idx].Function = strings.TrimSpace(function)

	if err := s.owners.SaveAll(ctx, owners); err != nil {
		return matter.Owner{}, err
	}

	s.snapshot(ctx, "update owner "+name, author)
	return owners[idx], nil
}

func (s *Service) DeleteOwner(ctx context.Context, id, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owners, err := s.owners.LoadAll(ctx)
	if err != nil {
		return err
	}
	idx := ownerIndexByID(owners, id)
	if idx < 0 {
		return domainError(http.StatusNotFound, "OWNER_NOT_FOUND", "Owner not found", nil)
	}

	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return err
	}
	name := owners[idx].Name
	inUse := 0
	for _, m := range matters {
		if strings.EqualFold(strings.TrimSpace(m.Owner), name) {
			inUse++
		}
	}
	if inUse > 0 {
		return domainError(http.StatusConflict, "OWNER_IN_USE", "Owner is assigned to matters", map[string]any{"matters": inUse})
	}

	owners = append(owners[:idx], owners[idx+1:]...)
	if err := s.owners.SaveAll(ctx, owners); err != nil {
		return err
	}

	s.snapshot(ctx, "delete owner "+name, author)
	return nil
}

// History and export

func (s *Service) History(_ context.Context, limit int) ([]gitrepo.CommitInfo, error) {
	if s.git == nil {
		return []gitrepo.CommitInfo{}, nil
	}
	return s.git.History(limit)
}

func (s *Service) ExportJSON(ctx context.Context) ([]matter.Matter, error) {
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if matters == nil {
		matters = []matter.Matter{}
	}
	return matters, nil
}

func (s *Service) ExportPDF(ctx context.Context) (*export.Result, error) {
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.exporter.RegisterPDF(matters, time.Now())
	if err != nil {
		if errors.Is(err, export.ErrPDFDependencyMissing) {
			return nil, domainError(http.StatusServiceUnavailable, "PDF_UNAVAILABLE", "PDF export is not available on this server", nil)
		}
		return nil, err
	}
	return result, nil
}

// helpers

func (s *Service) snapshot(ctx context.Context, action, author string) {
	if s.git == nil {
		return
	}
	matters, err := s.matters.LoadAll(ctx)
	if err != nil {
		log.Printf("snapshot: load matters: %v", err)
		return
	}
	owners, err := s.owners.LoadAll(ctx)
	if err != nil {
		log.Printf("snapshot: load owners: %v", err)
		return
	}

	files := make(map[string][]byte, 2)
	if data, err := json.MarshalIndent(matters, "", "  "); err == nil {
		files["matters.json"] = append(data, '\n')
	}
	if data, err := json.MarshalIndent(owners, "", "  "); err == nil {
		files["owners.json"] = append(data, '\n')
	}
	if _, err := s.git.Snapshot(action, author, files); err != nil {
		log.Printf("snapshot: %v", err)
	}
}

func (s *Service) reindex(matters []matter.Matter) {
	if s.search == nil {
		return
	}
	records := make([]search.MatterRecord, 0, len(matters))
	for _, m := range matters {
		records = append(records, search.RecordFor(m))
	}
	s.search.ReindexAll(records)
}

func applyMatterInput(m *matter.Matter, input map[string]any) {
	for _, f := range matter.Fields {
		raw, ok := input[f]
		if !ok {
			continue
		}
		value := strings.TrimSpace(inputString(raw))
		switch {
		case matter.IsIntField(f):
			n := ingest.ParseIntDefault(value, 0)
			if f == matter.FieldDaysWithLegal {
				m.DaysWithLegal = n
			} else {
				m.TotalCycleTime = n
			}
		case f == matter.FieldDateReceived || f == matter.FieldDateClosed:
			m.SetString(f, ingest.ParseDate(value))
		default:
			m.SetString(f, value)
		}
	}
}

func inputString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%v", value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// deriveDateClosed fills Date Closed from Date Received plus the total cycle
// time when the closed date is missing.
func deriveDateClosed(m *matter.Matter) {
	if m.DateClosed != "" || m.TotalCycleTime <= 0 || m.DateReceived == "" {
		return
	}
	received, err := time.Parse("2006-01-02", m.DateReceived)
	if err != nil {
		return
	}
	m.DateClosed = received.AddDate(0, 0, m.TotalCycleTime).Format("2006-01-02")
}

func indexByID(matters []matter.Matter, id string) int {
	for i := range matters {
		if matters[i].ID == id {
			return i
		}
	}
	return -1
}

func ownerIndexByID(owners []matter.Owner, id string) int {
	for i := range owners {
		if owners[i].ID == id {
			return i
		}
	}
	return -1
}

func ownerIndexByName(owners []matter.Owner, name string) int {
	for i := range owners {
		if strings.EqualFold(strings.TrimSpace(owners[i].Name), name) {
			return i
		}
	}
	return -1
}

func matterLabel(m matter.Matter) string {
	if strings.TrimSpace(m.Ref) != "" {
		return m.Ref
	}
	if strings.TrimSpace(m.Counterparty) != "" {
		return m.Counterparty
	}
	return m.ID
}
