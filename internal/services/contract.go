package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ContractInput carries the operator-editable contract fields.
// RequestedBalance only seeds the balances at creation.
type ContractInput struct {
	ProcessNumber    string                 `json:"process_number" validate:"required,max=100"`
	CompanyName      string                 `json:"company_name" validate:"required,max=255"`
	CompanyInfo      string                 `json:"company_info"`
	Category         models.Category        `json:"category" validate:"required"`
	Item             string                 `json:"item" validate:"required,max=255"`
	RequestedBalance int64                  `json:"requested_balance"`
	ExpiresOn        time.Time              `json:"expires_on"`
	Status           models.SignatureStatus `json:"status" validate:"required"`
}

func (in *ContractInput) normalize() {
	in.ProcessNumber = strings.TrimSpace(in.ProcessNumber)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CompanyInfo = strings.TrimSpace(in.CompanyInfo)
	in.Item = strings.TrimSpace(in.Item)
}

type ContractService struct {
	store repository.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewContractService(store repository.Store, log logrus.FieldLogger) *ContractService {
	return &ContractService{store: store, log: orDiscard(log), now: time.Now}
}

func (s *ContractService) validate(in ContractInput, creating bool) error {
	v := make(validation.Violations)
	validation.Struct(in, v)
	if in.Category != "" && !in.Category.Valid() {
		v["category"] = "invalid_choice"
	}
	if in.Status != "" && !in.Status.Valid() {
		v["status"] = "invalid_choice"
	}
	if creating || in.RequestedBalance != 0 {
		validation.Positive("requested_balance", in.RequestedBalance, v)
		validation.AtMost("requested_balance", in.RequestedBalance, models.MaxQuantity, v)
	}
	validation.NotBefore("expires_on", in.ExpiresOn, s.now(), v)
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

// Create opens a contract whose initial and current balances both equal
// the requested balance. The item must exist in the catalog.
func (s *ContractService) Create(ctx context.Context, in ContractInput) (*models.Contract, error) {
	in.normalize()
	if err := s.validate(in, true); err != nil {
		return nil, err
	}

	c := &models.Contract{
		ProcessNumber:  in.ProcessNumber,
		CompanyName:    in.CompanyName,
		CompanyInfo:    in.CompanyInfo,
		Category:       in.Category,
		Item:           in.Item,
		InitialBalance: in.RequestedBalance,
		CurrentBalance: in.RequestedBalance,
		ExpiresOn:      models.DateOnly(in.ExpiresOn),
		Status:         in.Status,
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Items().FindByName(ctx, in.Item); err != nil {
			return lookupErr(err, "item", in.Item)
		}
		return tx.Contracts().Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"contract_id": c.ID, "item": c.Item, "balance": c.InitialBalance}).Info("contract created")
	return c, nil
}

// Update rewrites the editable fields. Balances are never touched here.
func (s *ContractService) Update(ctx context.Context, id uint, in ContractInput) (*models.Contract, error) {
	in.normalize()
	if err := s.validate(in, false); err != nil {
		return nil, err
	}

	var c *models.Contract
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		c, err = tx.Contracts().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "contract", id)
		}
		if in.Item != c.Item {
			if _, err := tx.Items().FindByName(ctx, in.Item); err != nil {
				return lookupErr(err, "item", in.Item)
			}
		}
		c.ProcessNumber = in.ProcessNumber
		c.CompanyName = in.CompanyName
		c.CompanyInfo = in.CompanyInfo
		c.Category = in.Category
		c.Item = in.Item
		c.ExpiresOn = models.DateOnly(in.ExpiresOn)
		c.Status = in.Status
		return tx.Contracts().UpdateDetails(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("contract_id", id).Info("contract updated")
	return c, nil
}

// Delete removes the contract with its comments. Purchase orders for the
// item are left in place.
func (s *ContractService) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return lookupErr(tx.Contracts().Delete(ctx, id), "contract", id)
	})
	if err != nil {
		return err
	}
	s.log.WithField("contract_id", id).Info("contract deleted")
	return nil
}

func (s *ContractService) Get(ctx context.Context, id uint) (*models.Contract, error) {
	c, err := s.store.Contracts().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "contract", id)
	}
	return c, nil
}

func (s *ContractService) List(ctx context.Context, q repository.ContractQuery) ([]models.Contract, error) {
	return s.store.Contracts().List(ctx, q)
}

// SetManualStock overrides the imported available stock. A nil value
// clears the override.
func (s *ContractService) SetManualStock(ctx context.Context, id uint, stock *decimal.Decimal) (*models.Contract, error) {
	value := decimal.NullDecimal{}
	if stock != nil {
		if stock.IsNegative() {
			return nil, invalid("manual_stock", "must_not_be_negative")
		}
		value = decimal.NewNullDecimal(*stock)
	}

	var c *models.Contract
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		if c, err = tx.Contracts().FindByID(ctx, id); err != nil {
			return lookupErr(err, "contract", id)
		}
		c.ManualStock = value
		return tx.Contracts().SetManualStock(ctx, id, value)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
