package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/google/uuid"
)

// TransferService moves money between two of a user's accounts.
type TransferService struct {
	docs     store.DocumentStore
	notifier Notifier
	now      func() time.Time
}

func NewTransferService(docs store.DocumentStore, notifier Notifier) *TransferService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &TransferService{docs: docs, notifier: notifier, now: time.Now}
}

// Transfer records the movement. Bank to credit is a card payment stored
// as a single payment transaction; any other pair becomes two linked
// transfer legs. All records are written in one store transaction.
func (s *TransferService) Transfer(ctx context.Context, sess models.Session, req models.TransferRequest) (*models.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, ErrSameAccount
	}

	from, err := loadAccount(ctx, s.docs, sess.UserID, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := loadAccount(ctx, s.docs, sess.UserID, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	if !from.IsActive || !to.IsActive {
		return nil, ErrInactiveAccount
	}

	result := s.plan(sess, *from, *to, req)

	docs := make([]store.Document, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		doc, err := store.NewDocument(store.CollectionTransactions, tx.ID, tx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := s.docs.PutMany(ctx, sess.UserID, docs); err != nil {
		return nil, storeErr(err, "record transfer")
	}

	for _, tx := range result.Transactions {
		utils.LogLedgerAction("create_"+string(tx.Type), store.CollectionTransactions, tx.ID, sess.UserID)
	}
	s.notifier.Notify(sess.UserID, models.Notification{
		Type:      models.NotifyTransferCreated,
		Message:   fmt.Sprintf("%s from %s to %s recorded", result.Kind, from.Name, to.Name),
		Data:      result,
		CreatedAt: s.now(),
	})
	return result, nil
}

func (s *TransferService) plan(sess models.Session, from, to models.Account, req models.TransferRequest) *models.TransferResult {
	now := s.now()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	description := strings.TrimSpace(req.Description)

	base := models.Transaction{
		UserID:      sess.UserID,
		Amount:      req.Amount,
		Date:        date,
		Description: description,
		Status:      models.StatusCleared,
		Source:      models.SourceManual,
		CreatedAt:   now,
	}

	if from.Kind() == models.AccountKindBank && to.Kind() == models.AccountKindCredit {
		payment := base
		payment.ID = uuid.New().String()
		payment.AccountID = from.ID
		payment.ToAccountID = to.ID
		payment.Type = models.TxPayment
		payment.Category = "Credit Card Payment"
		if payment.Description == "" {
			payment.Description = "Payment to " + to.Name
		}
		return &models.TransferResult{Kind: models.TxPayment, Transactions: []models.Transaction{payment}}
	}

	transferID := uuid.New().String()

	out := base
	out.ID = uuid.New().String()
	out.AccountID = from.ID
	out.TransferID = transferID
	out.Type = models.TxTransfer
	out.Direction = models.DirectionOut
	out.Category = "Transfer"
	if out.Description == "" {
		out.Description = "Transfer to " + to.Name
	}

	in := base
	in.ID = uuid.New().String()
	in.AccountID = to.ID
	in.TransferID = transferID
	in.Type = models.TxTransfer
	in.Direction = models.DirectionIn
	in.Category = "Transfer"
	if in.Description == "" {
		in.Description = "Transfer from " + from.Name
	}

	return &models.TransferResult{Kind: models.TxTransfer, Transactions: []models.Transaction{out, in}}
}
