package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paintshop/internal/domain"
	"paintshop/internal/pricing"
	orderrepo "paintshop/internal/repository/order"
	"paintshop/internal/validation"
)

type cartStore interface {
	Get(ctx context.Context, actor domain.Actor) (*domain.Cart, error)
	ClearAt(ctx context.Context, actor domain.Actor, version int) (*domain.Cart, error)
	Restore(ctx context.Context, actor domain.Actor, prior *domain.Cart) (*domain.Cart, error)
}

// Form is the shipping and payment data submitted at checkout. Card fields only matter for card payments.
type Form struct {
	FirstName     string               `json:"firstName" validate:"notblank"`
	LastName      string               `json:"lastName" validate:"notblank"`
	Email         string               `json:"email" validate:"required,email"`
	Phone         string               `json:"phone" validate:"notblank"`
	Address       string               `json:"address" validate:"notblank"`
	City          string               `json:"city" validate:"notblank"`
	State         string               `json:"state" validate:"notblank"`
	Zip           string               `json:"zip" validate:"notblank"`
	Country       string               `json:"country" validate:"notblank"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" validate:"oneof=credit-card paypal"`
	CardName      string               `json:"cardName" validate:"required_if=PaymentMethod credit-card"`
	CardNumber    string               `json:"cardNumber" validate:"required_if=PaymentMethod credit-card"`
	CardExpiry    string               `json:"cardExpiry" validate:"required_if=PaymentMethod credit-card"`
	CardCvc       string               `json:"cardCvc" validate:"required_if=PaymentMethod credit-card"`
}

type Service struct {
	carts   cartStore
	orders  orderrepo.Repository
	pricing *pricing.Calculator
	logger  *zap.Logger
	now     func() time.Time
}

func New(carts cartStore, orders orderrepo.Repository, calc *pricing.Calculator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{carts: carts, orders: orders, pricing: calc, logger: logger, now: time.Now}
}

// Checkout prices the actor's cart with tax, records a pending order and empties the cart.
// A cart edited after it was priced yields ErrConflict and no order.
func (s *Service) Checkout(ctx context.Context, actor domain.Actor, form Form) (*domain.Order, error) {
	if err := domain.RequireUser(actor); err != nil {
		return nil, err
	}
	c, err := s.carts.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	form = trimForm(form)
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	q := s.pricing.CheckoutQuote(c).Rounded()
	order := domain.Order{
		ID:          newOrderID(),
		UserID:      actor.User.ID,
		Email:       strings.ToLower(form.Email),
		Items:       domain.ItemsFromCart(c),
		Subtotal:    q.Subtotal,
		Discount:    q.Discount,
		Shipping:    q.Shipping,
		Tax:         q.Tax,
		TotalAmount: q.Total,
		Status:      domain.OrderPending,
		ShippingAddress: domain.Address{
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Address:   form.Address,
			City:      form.City,
			State:     form.State,
			Zip:       form.Zip,
			Country:   form.Country,
			Phone:     form.Phone,
		},
		PaymentMethod: form.PaymentMethod,
		CreatedAt:     s.now().UTC(),
	}
	if q.PromoApplied {
		order.PromoCode = c.PromoCode
	}

	if _, err := s.carts.ClearAt(ctx, actor, c.Version); err != nil {
		return nil, err
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		if _, rerr := s.carts.Restore(ctx, actor, c); rerr != nil {
			s.logger.Error("restore cart after failed checkout", zap.String("owner", c.OwnerID), zap.Error(rerr))
		}
		return nil, err
	}
	s.logger.Info("order placed",
		zap.String("order_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("total", pricing.Format(created.TotalAmount)),
	)
	return created, nil
}

// ListOrders returns the actor's own orders, newest first.
func (s *Service) ListOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if err := domain.RequireUser(actor); err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, actor.User.ID)
}

// GetOrder hides other users' orders behind ErrNotFound; admins see every order.
func (s *Service) GetOrder(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	if err := domain.RequireUser(actor); err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.User.ID && !actor.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func trimForm(f Form) Form {
	for _, p := range []*string{
		&f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.Address, &f.City, &f.State, &f.Zip, &f.Country,
		&f.CardName, &f.CardNumber, &f.CardExpiry, &f.CardCvc,
	} {
		*p = strings.TrimSpace(*p)
	}
	f.PaymentMethod = domain.PaymentMethod(strings.TrimSpace(string(f.PaymentMethod)))
	return f
}

