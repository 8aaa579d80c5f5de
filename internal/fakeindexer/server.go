// Package fakeindexer serves an in-process stand-in for the zord indexer's
// HTTP surface, driven by a Fixture. Tests point the harness at it through
// httptest.
package fakeindexer

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Server is an http.Handler that records how often each path was hit.
type Server struct {
	fixture *Fixture
	router  chi.Router

	mu   sync.Mutex
	hits map[string]int
}

// New builds a fake indexer over f.
func New(f *Fixture) *Server {
	s := &Server{fixture: f, hits: make(map[string]int)}
	s.router = s.setupRouter()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	if resp, ok := s.fixture.Overrides[r.URL.Path]; ok {
		ct := resp.ContentType
		if ct == "" {
			ct = "application/json"
		}
		w.Header().Set("Content-Type", ct)
		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp.Body))
		return
	}
	s.router.ServeHTTP(w, r)
}

// Hits returns how many requests reached the decoded path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	for _, p := range []string{"/", "/tokens", "/names", "/names/zec", "/names/zcash", "/collections", "/zrc721", "/docs", "/spec", "/api"} {
		r.Get(p, s.page)
	}
	r.Get("/collection/{c}", s.page)
	r.Get("/inscription/{id}", s.page)
	r.Get("/preview/{id}", s.page)
	r.Get("/content/{id}", s.content)

	r.Get("/status", s.status)
	r.Get("/health", s.health)
	r.Get("/inscriptions", s.inscriptions)
	r.Get("/tokens/list", s.tokens)
	r.Get("/names/list", s.names)
	r.Get("/inscription/number/{n}", s.inscriptionByNumber)
	r.Get("/name/{name}", s.nameDetail)
	r.Get("/resolve/{name}", s.nameDetail)
	r.Get("/block/height", s.blockHeight)
	r.Get("/block/{h}", s.block)
	r.Get("/tx/{txid}", s.tx)
	r.Get("/address/{addr}/inscriptions", s.addressInscriptions)

	r.Route("/token/{tick}", func(r chi.Router) {
		r.Get("/", s.tokenDetail)
		r.Get("/balance/{addr}", s.balance)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Get("/healthz", s.health)
		r.Get("/inscriptions", s.inscriptions)
		r.Get("/tokens", s.tokens)
		r.Get("/names", s.names)
		r.Get("/names/zec", s.names)
		r.Get("/names/zcash", s.names)
		r.Get("/names/address/{addr}", s.namesByOwner)
		r.Get("/resolve/{name}", s.nameDetail)

		r.Route("/zrc20", func(r chi.Router) {
			r.Get("/status", s.status)
			r.Get("/tokens", s.tokens)
			r.Get("/address/{addr}", s.addressBalances)
			r.Get("/transfer/{id}", s.transfer)
			r.Route("/token/{tick}", func(r chi.Router) {
				r.Get("/", s.tokenDetail)
				r.Get("/summary", s.tokenDetail)
				r.Get("/balances", s.holders)
				r.Get("/integrity", s.integrity)
				r.Get("/burned", s.burned)
				r.Get("/rank/{addr}", s.rank)
			})
		})

		r.Route("/zrc721", func(r chi.Router) {
			r.Get("/status", s.zrc721Status)
			r.Get("/collections", s.collections)
			r.Get("/collection/{c}", s.collectionDetail)
			r.Get("/collection/{c}/tokens", s.collectionTokens)
			r.Get("/token/{c}/{id}", s.nft)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeNotFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusOK, map[string]any{"error": what + " not found"})
}

// param returns a decoded URL parameter. chi matches against RawPath when
// the request carried one, so those values arrive still escaped.
func param(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

// window returns one page of items. A positive maxLimit clamps the
// requested page size, as the real router does.
func window[T any](items []T, r *http.Request, defLimit, maxLimit int) []T {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if page < 0 {
		page = 0
	}
	start := page * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><title>zord</title><p>%s</p>", r.URL.Path)
}

func (s *Server) content(w http.ResponseWriter, r *http.Request) {
	ins := s.fixture.inscription(param(r, "id"))
	if ins == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", ins.ContentType)
	_, _ = w.Write([]byte(ins.Content))
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"height":       s.fixture.Height,
		"tokens":       len(s.fixture.Tokens),
		"names":        len(s.fixture.Names),
		"inscriptions": len(s.fixture.Inscriptions),
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "height": s.fixture.Height})
}

func tokenSummary(t *Token) map[string]any {
	return map[string]any{
		"ticker":   t.Ticker,
		"supply":   t.Supply,
		"max":      t.Max,
		"progress": t.Progress,
	}
}

func (s *Server) tokens(w http.ResponseWriter, r *http.Request) {
	items := make([]map[string]any, 0, len(s.fixture.Tokens))
	for i := range s.fixture.Tokens {
		items = append(items, tokenSummary(&s.fixture.Tokens[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": window(items, r, 24, s.fixture.MaxPageSize),
		"total": len(items),
	})
}

func (s *Server) tokenDetail(w http.ResponseWriter, r *http.Request) {
	t := s.fixture.token(param(r, "tick"))
	if t == nil {
		writeNotFound(w, "token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tick":     t.Ticker,
		"max":      t.Max,
		"lim":      t.Lim,
		"dec":      t.Dec,
		"supply":   t.Supply,
		"progress": t.Progress,
		"holders":  len(t.Holders),
	})
}

func holderDoc(h Holder) map[string]any {
	return map[string]any{
		"address":   h.Address,
		"available": h.Available,
		"overall":   h.Overall,
	}
}

func (s *Server) holders(w http.ResponseWriter, r *http.Request) {
	t := s.fixture.token(param(r, "tick"))
	if t == nil {
		writeNotFound(w, "token")
		return
	}
	docs := make([]map[string]any, 0, len(t.Holders))
	for _, h := range t.Holders {
		docs = append(docs, holderDoc(h))
	}
	resp := map[string]any{"holders": window(docs, r, 25, s.fixture.MaxPageSize)}
	if !s.fixture.OmitHolderTotal {
		resp["total"] = len(docs)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) integrity(w http.ResponseWriter, r *http.Request) {
	t := s.fixture.token(param(r, "tick"))
	if t == nil {
		writeNotFound(w, "token")
		return
	}
	if t.Integrity != nil {
		writeJSON(w, http.StatusOK, t.Integrity)
		return
	}

	sum := new(big.Rat)
	for _, h := range t.Holders {
		if v, ok := new(big.Rat).SetString(h.Overall); ok {
			sum.Add(sum, v)
		}
	}
	supply, ok := new(big.Rat).SetString(t.Supply)
	consistent := ok && supply.Cmp(sum) == 0

	writeJSON(w, http.StatusOK, map[string]any{
		"ticker":     t.Ticker,
		"consistent": consistent,
		"supply":     t.Supply,
		"sumOverall": sum.RatString(),
		"holders":    len(t.Holders),
	})
}

func (s *Server) burned(w http.ResponseWriter, r *http.Request) {
	t := s.fixture.token(param(r, "tick"))
	if t == nil {
		writeNotFound(w, "token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tick": t.Ticker, "burned": t.Burned})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	t := s.fixture.token(param(r, "tick"))
	if t == nil {
		writeNotFound(w, "token")
		return
	}
	addr := param(r, "addr")
	doc := map[string]any{"tick": t.Ticker, "address": addr, "available": "0", "overall": "0"}
	for _, h := range t.Holders {
		if h.Address == addr {
			doc["available"] = h.Available
			doc["overall"] = h.Overall
		}
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) rank(w http.ResponseWriter, r *http.Request) {
	t := s.fixture.token(param(r, "tick"))
	if t == nil {
		writeNotFound(w, "token")
		return
	}
	addr := param(r, "addr")
	for i, h := range t.Holders {
		if h.Address == addr {
			writeJSON(w, http.StatusOK, map[string]any{"tick": t.Ticker, "address": addr, "rank": i + 1})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tick": t.Ticker, "address": addr, "rank": nil})
}

func (s *Server) addressBalances(w http.ResponseWriter, r *http.Request) {
	addr := param(r, "addr")
	balances := []map[string]any{}
	for _, t := range s.fixture.Tokens {
		for _, h := range t.Holders {
			if h.Address == addr {
				doc := holderDoc(h)
				doc["tick"] = t.Ticker
				balances = append(balances, doc)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"address": addr, "balances": balances})
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	ins := s.fixture.inscription(param(r, "id"))
	if ins == nil || !ins.Transfer {
		writeJSON(w, http.StatusOK, map[string]any{"error": "transfer not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": ins.ID, "owner": ins.Address, "used": false})
}

func nameDoc(n *Name) map[string]any {
	return map[string]any{"name": n.Name, "owner": n.Owner}
}

func (s *Server) names(w http.ResponseWriter, r *http.Request) {
	items := make([]map[string]any, 0, len(s.fixture.Names))
	for i := range s.fixture.Names {
		items = append(items, nameDoc(&s.fixture.Names[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": window(items, r, 24, s.fixture.MaxPageSize), "total": len(items)})
}

func (s *Server) nameDetail(w http.ResponseWriter, r *http.Request) {
	n := s.fixture.name(param(r, "name"))
	if n == nil {
		writeNotFound(w, "name")
		return
	}
	writeJSON(w, http.StatusOK, nameDoc(n))
}

func (s *Server) namesByOwner(w http.ResponseWriter, r *http.Request) {
	addr := param(r, "addr")
	items := []map[string]any{}
	for i := range s.fixture.Names {
		if s.fixture.Names[i].Owner == addr {
			items = append(items, nameDoc(&s.fixture.Names[i]))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"address": addr, "names": items})
}

func inscriptionDoc(ins *Inscription) map[string]any {
	return map[string]any{
		"id":           ins.ID,
		"content_type": ins.ContentType,
		"meta":         map[string]any{"txid": ins.TxID, "address": ins.Address},
	}
}

func (s *Server) inscriptions(w http.ResponseWriter, r *http.Request) {
	items := make([]map[string]any, 0, len(s.fixture.Inscriptions))
	for i := range s.fixture.Inscriptions {
		items = append(items, inscriptionDoc(&s.fixture.Inscriptions[i]))
	}
	if s.fixture.BareInscriptionFeed {
		writeJSON(w, http.StatusOK, items)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (s *Server) inscriptionByNumber(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(param(r, "n"))
	if err != nil || n < 0 || n >= len(s.fixture.Inscriptions) {
		writeNotFound(w, "inscription")
		return
	}
	writeJSON(w, http.StatusOK, inscriptionDoc(&s.fixture.Inscriptions[n]))
}

func (s *Server) addressInscriptions(w http.ResponseWriter, r *http.Request) {
	addr := param(r, "addr")
	items := []map[string]any{}
	for i := range s.fixture.Inscriptions {
		if s.fixture.Inscriptions[i].Address == addr {
			items = append(items, inscriptionDoc(&s.fixture.Inscriptions[i]))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"address": addr, "inscriptions": items})
}

func (s *Server) blockHeight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"height": s.fixture.Height})
}

func (s *Server) block(w http.ResponseWriter, r *http.Request) {
	h, err := strconv.ParseInt(param(r, "h"), 10, 64)
	if err != nil || h < 0 || h > s.fixture.Height {
		writeNotFound(w, "block")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"height": h, "hash": fmt.Sprintf("%064x", h)})
}

func (s *Server) tx(w http.ResponseWriter, r *http.Request) {
	txid := param(r, "txid")
	for i := range s.fixture.Inscriptions {
		if s.fixture.Inscriptions[i].TxID == txid {
			writeJSON(w, http.StatusOK, map[string]any{"txid": txid, "inscriptions": []string{s.fixture.Inscriptions[i].ID}})
			return
		}
	}
	writeNotFound(w, "transaction")
}

func (s *Server) zrc721Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"collections": len(s.fixture.Collections), "height": s.fixture.Height})
}

func (s *Server) collections(w http.ResponseWriter, r *http.Request) {
	items := make([]map[string]any, 0, len(s.fixture.Collections))
	for _, c := range s.fixture.Collections {
		items = append(items, map[string]any{"collection": c.ID, "supply": len(c.TokenIDs)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": window(items, r, 24, s.fixture.MaxPageSize), "total": len(items)})
}

func (s *Server) collectionDetail(w http.ResponseWriter, r *http.Request) {
	c := s.fixture.collection(param(r, "c"))
	if c == nil {
		writeNotFound(w, "collection")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collection": c.ID, "supply": len(c.TokenIDs)})
}

func (s *Server) collectionTokens(w http.ResponseWriter, r *http.Request) {
	c := s.fixture.collection(param(r, "c"))
	if c == nil {
		writeNotFound(w, "collection")
		return
	}
	items := make([]map[string]any, 0, len(c.TokenIDs))
	for _, id := range c.TokenIDs {
		items = append(items, map[string]any{"collection": c.ID, "token_id": id})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": window(items, r, 10, s.fixture.MaxPageSize), "total": len(items)})
}

func (s *Server) nft(w http.ResponseWriter, r *http.Request) {
	c := s.fixture.collection(param(r, "c"))
	id := param(r, "id")
	if c == nil {
		writeNotFound(w, "collection")
		return
	}
	for _, tid := range c.TokenIDs {
		if tid == id {
			writeJSON(w, http.StatusOK, map[string]any{"collection": c.ID, "token_id": id})
			return
		}
	}
	writeNotFound(w, "token")
}
