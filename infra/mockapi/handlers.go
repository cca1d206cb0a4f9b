package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/infra/api"
)

type contentHandlers struct {
	s    *Server
	kind domain.Kind
}

func (h contentHandlers) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, h.kind.Label()+" not found")
}

func (h contentHandlers) list(w http.ResponseWriter, r *http.Request) {
	h.s.mu.Lock()
	items := h.s.st.list(h.kind, "")
	h.s.mu.Unlock()
	writeItems(w, items)
}

func (h contentHandlers) listByUser(w http.ResponseWriter, r *http.Request) {
	h.s.mu.Lock()
	items := h.s.st.list(h.kind, chi.URLParam(r, "userID"))
	h.s.mu.Unlock()
	writeItems(w, items)
}

func (h contentHandlers) get(w http.ResponseWriter, r *http.Request) {
	h.s.mu.Lock()
	it, ok := h.s.st.get(h.kind, chi.URLParam(r, "id"))
	h.s.mu.Unlock()
	if !ok {
		h.notFound(w)
		return
	}
	writeItem(w, http.StatusOK, it)
}

func (h contentHandlers) readItem(r *http.Request) (domain.Item, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 32<<20))
	if err != nil {
		return domain.Item{}, err
	}
	return api.ItemFromJSON(h.kind, data)
}

func (h contentHandlers) create(w http.ResponseWriter, r *http.Request) {
	draft, err := h.readItem(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.s.mu.Lock()
	it, err := h.s.st.create(h.kind, chi.URLParam(r, "userID"), draft)
	h.s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeItem(w, http.StatusCreated, it)
}

func (h contentHandlers) update(w http.ResponseWriter, r *http.Request) {
	in, err := h.readItem(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.s.mu.Lock()
	it, found, err := h.s.st.update(h.kind, chi.URLParam(r, "id"), in)
	h.s.mu.Unlock()
	switch {
	case !found:
		h.notFound(w)
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeItem(w, http.StatusOK, it)
	}
}

func (h contentHandlers) remove(w http.ResponseWriter, r *http.Request) {
	h.s.mu.Lock()
	ok := h.s.st.remove(h.kind, chi.URLParam(r, "id"))
	h.s.mu.Unlock()
	if !ok {
		h.notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h contentHandlers) addLike(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := readJSON(r, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	h.s.mu.Lock()
	it, ok := h.s.st.addLike(h.kind, chi.URLParam(r, "id"), req.UserID)
	h.s.mu.Unlock()
	if !ok {
		h.notFound(w)
		return
	}
	writeItem(w, http.StatusCreated, it)
}

func (h contentHandlers) removeLike(w http.ResponseWriter, r *http.Request) {
	h.s.mu.Lock()
	it, ok := h.s.st.removeLike(h.kind, chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	h.s.mu.Unlock()
	if !ok {
		h.notFound(w)
		return
	}
	writeItem(w, http.StatusOK, it)
}

type commentRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

func (r commentRequest) validate() error {
	if r.UserID == "" {
		return domain.Required("userId")
	}
	if strings.TrimSpace(r.Content) == "" {
		return domain.Required("content")
	}
	return nil
}

func (h contentHandlers) readComment(w http.ResponseWriter, r *http.Request) (commentRequest, bool) {
	var req commentRequest
	err := readJSON(r, &req)
	if err == nil {
		err = req.validate()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return commentRequest{}, false
	}
	return req, true
}

func (h contentHandlers) addComment(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readComment(w, r)
	if !ok {
		return
	}
	h.s.mu.Lock()
	it, ok := h.s.st.addComment(h.kind, chi.URLParam(r, "id"), req.UserID, req.UserName, strings.TrimSpace(req.Content))
	h.s.mu.Unlock()
	if !ok {
		h.notFound(w)
		return
	}
	writeItem(w, http.StatusCreated, it)
}

func (h contentHandlers) updateComment(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readComment(w, r)
	if !ok {
		return
	}
	h.s.mu.Lock()
	it, ok := h.s.st.updateComment(h.kind, chi.URLParam(r, "id"), chi.URLParam(r, "commentID"), strings.TrimSpace(req.Content))
	h.s.mu.Unlock()
	if !ok {
		h.notFound(w)
		return
	}
	writeItem(w, http.StatusOK, it)
}

func (h contentHandlers) deleteComment(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	h.s.mu.Lock()
	it, ok := h.s.st.deleteComment(h.kind, chi.URLParam(r, "id"), chi.URLParam(r, "commentID"), userID)
	h.s.mu.Unlock()
	if !ok {
		h.notFound(w)
		return
	}
	writeItem(w, http.StatusOK, it)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.st.profiles[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeProfile(w, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		Name   string   `json:"name"`
		Bio    string   `json:"bio"`
		Skills []string `json:"skills"`
	}
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.mu.Lock()
	id := chi.URLParam(r, "id")
	p, ok := s.st.profiles[id]
	if ok {
		p.Name, p.Bio, p.Skills = req.Name, req.Bio, req.Skills
		s.st.profiles[id] = p
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeProfile(w, p)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	ids := strings.Split(r.URL.Query().Get("ids"), ",")
	s.mu.Lock()
	var found []domain.Profile
	for _, id := range ids {
		if p, ok := s.st.profiles[strings.TrimSpace(id)]; ok {
			found = append(found, p)
		}
	}
	s.mu.Unlock()
	out := make([]json.RawMessage, 0, len(found))
	for _, p := range found {
		data, err := api.ProfileToJSON(p)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, data)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFollow(on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		userID := chi.URLParam(r, "id")
		followerID := r.URL.Query().Get("followerId")
		if followerID == "" || followerID == userID {
			writeError(w, http.StatusBadRequest, "invalid followerId")
			return
		}
		s.mu.Lock()
		ok := s.st.follow(userID, followerID, on)
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) handlePostCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := s.st.postCount(chi.URLParam(r, "id"))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"totalPosts": n})
}

func writeProfile(w http.ResponseWriter, p domain.Profile) {
	data, err := api.ProfileToJSON(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
