package trustlist

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/spf13/cast"
	"github.com/twitchtv/twirp"
)

func (s *Server) Handler() http.Handler {
	m := chi.NewMux()
	m.Use(middleware.Recoverer)
	m.Use(middleware.RealIP)
	m.Use(middleware.Logger)
	m.Use(middleware.Heartbeat("/hc"))
	m.Use(cors.AllowAll().Handler)
	m.Use(handleAuth(s.cfg.Issuer))

	m.Get("/assets", s.listAssets)
	m.Put("/assets/{chain}/{asset}/trust", s.trustAsset)
	m.Put("/assets/{chain}/{asset}/hide", s.hideAsset)
	m.Delete("/assets/{chain}/{asset}/override", s.clearOverride)
	m.Get("/preference", s.getPreference)
	m.Put("/preference", s.updatePreference)

	return m
}

func renderJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	_ = json.NewEncoder(w).Encode(v)
}

func renderErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAccount):
		err = twirp.PermissionDenied.Error(err.Error())
	case errors.Is(err, ErrUnknownAsset):
		err = twirp.InvalidArgumentError("asset", err.Error())
	}

	_ = twirp.WriteError(w, err)
}

// listAssets renders one surface for the caller. Pickers and the wallet
// list all read the same store snapshot taken inside this request, so a
// trust change made on any surface is visible to every surface on its
// next read.
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := UserFrom(ctx)
	if !ok {
		renderErr(w, twirp.Unauthenticated.Error("unauthenticated"))
		return
	}

	q := r.URL.Query()

	surface, err := ParseSurface(q.Get("surface"))
	if err != nil {
		renderErr(w, twirp.InvalidArgumentError("surface", err.Error()))
		return
	}

	limit := cast.ToInt(q.Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	if err := enqueueJob(s.db, user, s.cfg.JobTTL); err != nil {
		renderErr(w, err)
		return
	}

	batch, err := FindBalances(s.db, user.ID)
	if err != nil {
		renderErr(w, err)
		return
	}

	snap, err := s.store.Snapshot(user.ID)
	if err != nil {
		renderErr(w, err)
		return
	}

	view, err := BuildView(surface, batch.Assets, s.curated, snap)
	if err != nil {
		renderErr(w, err)
		return
	}

	if len(view.Entries) > limit {
		view.Entries = view.Entries[:limit]
	}

	renderJSON(w, struct {
		*View
		UpdatedAt string `json:"updated_at,omitempty"`
	}{
		View:      view,
		UpdatedAt: formatTime(batch.UpdatedAt),
	})
}

func (s *Server) trustAsset(w http.ResponseWriter, r *http.Request) {
	s.writeOverride(w, r, DecisionTrusted)
}

func (s *Server) hideAsset(w http.ResponseWriter, r *http.Request) {
	s.writeOverride(w, r, DecisionHidden)
}

func (s *Server) writeOverride(w http.ResponseWriter, r *http.Request, decision Decision) {
	ctx := r.Context()
	user, ok := UserFrom(ctx)
	if !ok {
		renderErr(w, twirp.Unauthenticated.Error("unauthenticated"))
		return
	}

	key, err := assetKeyFromRequest(r)
	if err != nil {
		renderErr(w, err)
		return
	}

	switch decision {
	case DecisionTrusted:
		err = s.store.Trust(user.ID, key)
	case DecisionHidden:
		err = s.store.Hide(user.ID, key)
	}

	if err != nil {
		slog.Error("write override failed", slog.Any("err", err))
		renderErr(w, err)
		return
	}

	s.renderTier(w, user, key)
}

func (s *Server) clearOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := UserFrom(ctx)
	if !ok {
		renderErr(w, twirp.Unauthenticated.Error("unauthenticated"))
		return
	}

	key, err := assetKeyFromRequest(r)
	if err != nil {
		renderErr(w, err)
		return
	}

	if err := s.store.ClearOverride(user.ID, key); err != nil {
		renderErr(w, err)
		return
	}

	s.renderTier(w, user, key)
}

func (s *Server) renderTier(w http.ResponseWriter, user *User, key AssetKey) {
	snap, err := s.store.Snapshot(user.ID)
	if err != nil {
		renderErr(w, err)
		return
	}

	tier, err := Classify(key, s.curated, snap)
	if err != nil {
		renderErr(w, err)
		return
	}

	renderJSON(w, struct {
		Key  AssetKey  `json:"key"`
		Tier TrustTier `json:"tier"`
	}{Key: key, Tier: tier})
}

func (s *Server) getPreference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := UserFrom(ctx)
	if !ok {
		renderErr(w, twirp.Unauthenticated.Error("unauthenticated"))
		return
	}

	snap, err := s.store.Snapshot(user.ID)
	if err != nil {
		renderErr(w, err)
		return
	}

	renderJSON(w, struct {
		ShowUnverified bool `json:"show_unverified"`
	}{ShowUnverified: snap.ShowUnverified})
}

func (s *Server) updatePreference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := UserFrom(ctx)
	if !ok {
		renderErr(w, twirp.Unauthenticated.Error("unauthenticated"))
		return
	}

	var body struct {
		ShowUnverified bool `json:"show_unverified"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderErr(w, twirp.InvalidArgumentError("body", "invalid json"))
		return
	}

	if err := s.store.SetShowUnverified(user.ID, body.ShowUnverified); err != nil {
		renderErr(w, err)
		return
	}

	renderJSON(w, body)
}

func assetKeyFromRequest(r *http.Request) (AssetKey, error) {
	chain := chi.URLParam(r, "chain")
	asset := chi.URLParam(r, "asset")

	if !govalidator.IsUUID(chain) {
		return AssetKey{}, twirp.InvalidArgumentError("chain", "invalid chain id")
	}

	return NewAssetKey(chain, asset), nil
}
