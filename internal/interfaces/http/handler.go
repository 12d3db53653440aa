package httpinterface

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/application"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/internal/infrastructure/pubsub/stream"
)

var errEventsDisabled = errors.New("events stream is disabled")

type handler struct {
	launcherSvc application.LauncherService
	guestSvc    application.GuestService
	intentSvc   application.IntentService
	pubsubSvc   application.PubSubService
	hub         *stream.Hub
	upgrader    websocket.Upgrader
}

func newHandler(opts ServiceOpts) *handler {
	return &handler{
		launcherSvc: opts.LauncherSvc,
		guestSvc:    opts.GuestSvc,
		intentSvc:   opts.IntentSvc,
		pubsubSvc:   opts.PubSubSvc,
		hub:         opts.EventsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are already filtered by the CORS layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// decodeBody parses the JSON body of the request into v. An empty body
// leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (h *handler) launchToken(w http.ResponseWriter, r *http.Request) {
	var req launchTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.launcherSvc.LaunchToken(r.Context(), ports.LaunchTokenRequest{
		Name:        req.Name,
		Symbol:      req.Symbol,
		TotalSupply: req.TotalSupply,
		Continuous:  req.Continuous,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeResult(w, response{
		"token":  newTokenView(res.Token),
		"intent": newIntentView(res.Intent),
	})
}

func (h *handler) addGuest(w http.ResponseWriter, r *http.Request) {
	var req addGuestRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.guestSvc.AddGuest(r.Context(), ports.AddGuestRequest{
		TokenID:   req.TokenID,
		AccountID: req.AccountID,
		PublicKey: req.PublicKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeResult(w, response{
		"addKey":    res.AddKey,
		"add_guest": res.AddGuest,
		"guest":     newGuestView(res.Guest),
		"intent":    res.Intent.ID,
	})
}

func (h *handler) removeGuest(w http.ResponseWriter, r *http.Request) {
	var req guestKeyRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.guestSvc.RemoveGuest(r.Context(), req.TokenID, req.PublicKey)
	if err != nil {
		writeError(w, err)
		return
	}

	writeResult(w, response{
		"remove_guest": res.RemoveGuest,
		"delete_key":   res.DeleteKey,
		"intent":       res.Intent.ID,
	})
}

func (h *handler) transferTokens(w http.ResponseWriter, r *http.Request) {
	var req transferTokensRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	outcome, err := h.launcherSvc.TransferTokens(
		r.Context(), req.TokenID, req.ReceiverID, req.Amount, req.Memo,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, outcome)
}

func (h *handler) mint(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	outcome, err := h.launcherSvc.Mint(r.Context(), req.TokenID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, outcome)
}

func (h *handler) updateDropAmount(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	outcome, err := h.launcherSvc.UpdateDropAmount(
		r.Context(), req.TokenID, req.Amount,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, outcome)
}

func (h *handler) addKey(w http.ResponseWriter, r *http.Request) {
	var req addKeyRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	outcome, err := h.guestSvc.AddOwnerKey(r.Context(), req.PublicKey, req.TokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, outcome)
}

func (h *handler) deleteAccessKeys(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	outcomes, err := h.guestSvc.DeleteContractAccessKeys(r.Context(), req.TokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, outcomes)
}

func (h *handler) balanceOf(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	balance, err := h.launcherSvc.BalanceOf(r.Context(), req.TokenID, req.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"balance": balance})
}

func (h *handler) totalSupply(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	supply, err := h.launcherSvc.TotalSupply(r.Context(), req.TokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"supply": supply})
}

func (h *handler) storageBalanceOf(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	balance, err := h.launcherSvc.StorageBalanceOf(
		r.Context(), req.TokenID, req.AccountID,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"balance": balance})
}

func (h *handler) getGuest(w http.ResponseWriter, r *http.Request) {
	var req guestKeyRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	accountID, err := h.guestSvc.GetGuest(r.Context(), req.TokenID, req.PublicKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"account_id": accountID})
}

func (h *handler) storageDeposit(w http.ResponseWriter, r *http.Request) {
	var req storageDepositRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	proof, err := req.proof()
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.guestSvc.VerifyAccessKeyProof(r.Context(), proof); err != nil {
		writeUnauthorized(w, err)
		return
	}

	res, err := h.launcherSvc.StorageDeposit(
		r.Context(), req.TokenID, req.ImplicitAccountID,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

func (h *handler) hasAccessKey(w http.ResponseWriter, r *http.Request) {
	var req accessKeyProofRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	proof, err := req.proof()
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.guestSvc.VerifyAccessKeyProof(r.Context(), proof); err != nil {
		writeUnauthorized(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (h *handler) listTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.launcherSvc.ListTokens(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]tokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, newTokenView(t))
	}
	writeSuccess(w, response{"tokens": views})
}

func (h *handler) listGuests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	guests, err := h.guestSvc.ListGuests(
		r.Context(), query.Get("tokenId"), domain.GuestStatus(query.Get("status")),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"guests": newGuestViews(guests)})
}

func (h *handler) reconcileGuests(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	guests, err := h.guestSvc.ReconcileGuests(r.Context(), req.TokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"guests": newGuestViews(guests)})
}

func (h *handler) listIntents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var page *domain.Page
	if number := query.Get("page"); len(number) > 0 {
		n, err := strconv.Atoi(number)
		if err != nil {
			writeBadRequest(w, fmt.Errorf("invalid page number %s", number))
			return
		}
		size, _ := strconv.Atoi(query.Get("size"))
		p := domain.NewPage(n, size)
		page = &p
	}

	var (
		intents []domain.Intent
		err     error
	)
	if target := query.Get("target"); len(target) > 0 {
		intents, err = h.intentSvc.ListIntentsForTarget(r.Context(), target)
	} else {
		intents, err = h.intentSvc.ListIntents(
			r.Context(), domain.IntentStatus(query.Get("status")), page,
		)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"intents": newIntentViews(intents)})
}

func (h *handler) resolveIntent(w http.ResponseWriter, r *http.Request) {
	var req resolveIntentRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	intent, err := h.intentSvc.ResolveIntent(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"intent": newIntentView(*intent)})
}

func (h *handler) addWebhook(w http.ResponseWriter, r *http.Request) {
	var req addWebhookRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	id, err := h.pubsubSvc.AddWebhook(r.Context(), req.Event, req.Endpoint, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, response{"id": id})
}

func (h *handler) removeWebhook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.pubsubSvc.RemoveWebhook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (h *handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.pubsubSvc.ListWebhooks(r.Context(), r.URL.Query().Get("event"))
	if err != nil {
		writeError(w, err)
		return
	}
	if hooks == nil {
		hooks = []application.WebhookInfo{}
	}
	writeSuccess(w, response{"webhooks": hooks})
}

func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, errEventsDisabled)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already replied to the client.
		log.WithError(err).Debug("failed to upgrade events connection")
		return
	}
	h.hub.Serve(conn, r.URL.Query().Get("event"))
}
