package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/export"
	"bilancio/internal/services"
)

type createTransactionRequest struct {
	CategoryID string `json:"categoryId"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	OccurredOn string `json:"occurredOn"`
	Note       string `json:"note"`
}

type updateTransactionRequest struct {
	CategoryID *string `json:"categoryId"`
	Type       *string `json:"type"`
	Amount     *string `json:"amount"`
	OccurredOn *string `json:"occurredOn"`
	Note       *string `json:"note"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, total, err := s.transactions.List(r.Context(), userID(r), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in, err := toTransactionInput(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.transactions.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func toTransactionInput(req createTransactionRequest) (services.TransactionInput, error) {
	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		return services.TransactionInput{}, err
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return services.TransactionInput{}, err
	}
	occurredOn, err := core.ParseInstant(req.OccurredOn)
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		CategoryID: req.CategoryID,
		Type:       typ,
		Amount:     amount,
		OccurredOn: occurredOn,
		Note:       req.Note,
	}, nil
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch, err := toTransactionPatch(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.transactions.Update(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func toTransactionPatch(req updateTransactionRequest) (core.TransactionPatch, error) {
	var patch core.TransactionPatch
	patch.CategoryID = req.CategoryID
	patch.Note = req.Note

	if req.Type != nil {
		typ, err := core.ParseTransactionType(*req.Type)
		if err != nil {
			return core.TransactionPatch{}, err
		}
		patch.Type = &typ
	}
	if req.Amount != nil {
		amount, err := core.ParseAmount(*req.Amount)
		if err != nil {
			return core.TransactionPatch{}, err
		}
		patch.Amount = &amount
	}
	if req.OccurredOn != nil {
		occurredOn, err := core.ParseInstant(*req.OccurredOn)
		if err != nil {
			return core.TransactionPatch{}, err
		}
		patch.OccurredOn = &occurredOn
	}
	return patch, nil
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	txs, err := s.transactions.Export(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	names, err := s.categories.Names(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := export.TransactionsXLSX(txs, names)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}
