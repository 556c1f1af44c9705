package cart

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"paintshop/internal/domain"
	"paintshop/internal/pricing"
	cartrepo "paintshop/internal/repository/cart"
)

// maxAttempts bounds how often a mutation is replayed on a freshly loaded cart after a version conflict.
const maxAttempts = 3

type productGetter interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     cartrepo.Repository
	products productGetter
	pricing  *pricing.Calculator
	logger   *zap.Logger
}

func New(repo cartrepo.Repository, products productGetter, calc *pricing.Calculator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, products: products, pricing: calc, logger: logger}
}

// AddInput selects a product variant to put in the cart.
type AddInput struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// Get returns the actor's cart; an owner without a stored cart gets an empty one.
func (s *Service) Get(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	owner, err := ownerOf(actor)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, owner)
}

// AddItem looks up the product, resolves the color variant and merges the line into the cart.
// Name, price and image are captured from the product at this moment.
func (s *Service) AddItem(ctx context.Context, actor domain.Actor, in AddInput) (*domain.Cart, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.NewValidationError("productId", "is required")
	}
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "must be at least 1")
	}
	p, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p.Inventory <= 0 {
		return nil, domain.NewValidationError("productId", "is out of stock")
	}
	color, ok := p.ResolveColor(in.Color)
	if !ok {
		return nil, domain.NewValidationError("color", "is not offered for this product")
	}
	line := domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  in.Quantity,
		Image:     p.PrimaryImage(),
		Color:     color,
	}
	c, err := s.mutate(ctx, actor, func(c *domain.Cart) error { return c.AddItem(line) })
	if err != nil {
		return nil, err
	}
	s.logger.Debug("cart item added",
		zap.String("owner", c.OwnerID),
		zap.String("product_id", line.ProductID),
		zap.String("color", line.Color),
		zap.Int("quantity", line.Quantity),
	)
	return c, nil
}

// SetQuantity replaces the quantity of a line. The color is matched the way AddItem resolves it.
func (s *Service) SetQuantity(ctx context.Context, actor domain.Actor, productID, color string, quantity int) (*domain.Cart, error) {
	color, err := s.lineColor(ctx, productID, color)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, func(c *domain.Cart) error {
		return c.SetQuantity(productID, color, quantity)
	})
}

// RemoveItem drops the line; a missing line leaves the cart as it is.
func (s *Service) RemoveItem(ctx context.Context, actor domain.Actor, productID, color string) (*domain.Cart, error) {
	color, err := s.lineColor(ctx, productID, color)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, func(c *domain.Cart) error {
		c.RemoveItem(productID, color)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	return s.mutate(ctx, actor, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

// ClearAt empties the cart only while it is still at version. A cart changed since
// that version yields ErrConflict and is left untouched.
func (s *Service) ClearAt(ctx context.Context, actor domain.Actor, version int) (*domain.Cart, error) {
	owner, err := ownerOf(actor)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c.Version != version {
		return nil, domain.ErrConflict
	}
	c.Clear()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Restore adds the lines of prior back into the actor's cart with AddItem semantics.
func (s *Service) Restore(ctx context.Context, actor domain.Actor, prior *domain.Cart) (*domain.Cart, error) {
	return s.mutate(ctx, actor, func(c *domain.Cart) error {
		return absorb(c, prior)
	})
}

// ApplyPromo stores a valid code on the cart. An invalid code leaves the cart unchanged.
func (s *Service) ApplyPromo(ctx context.Context, actor domain.Actor, code string) (*domain.Cart, error) {
	code = strings.TrimSpace(code)
	if !s.pricing.IsValidPromo(code) {
		return nil, domain.ErrInvalidPromo
	}
	return s.mutate(ctx, actor, func(c *domain.Cart) error {
		c.PromoCode = code
		return nil
	})
}

func (s *Service) RemovePromo(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	return s.mutate(ctx, actor, func(c *domain.Cart) error {
		c.PromoCode = ""
		return nil
	})
}

// Quote prices the actor's cart as shown on the cart page (no tax).
func (s *Service) Quote(ctx context.Context, actor domain.Actor) (*domain.Cart, pricing.Quote, error) {
	c, err := s.Get(ctx, actor)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return c, s.pricing.CartQuote(c), nil
}

// Merge moves the guest cart into the user's cart with AddItem semantics and deletes the guest cart.
// A promo on the guest cart carries over when the user cart has none.
func (s *Service) Merge(ctx context.Context, guestID, userID string) (*domain.Cart, error) {
	if guestID == "" || guestID == userID {
		return s.load(ctx, userID)
	}
	guestCart, err := s.repo.Get(ctx, guestID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.load(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	user := domain.Actor{User: &domain.User{ID: userID}}
	merged, err := s.mutate(ctx, user, func(c *domain.Cart) error {
		return absorb(c, guestCart)
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, guestID); err != nil {
		return nil, err
	}
	s.logger.Info("guest cart merged", zap.String("guest", guestID), zap.String("user", userID), zap.Int("lines", len(guestCart.Lines)))
	return merged, nil
}

// absorb adds every line of from into c and takes its promo when c has none.
func absorb(c, from *domain.Cart) error {
	for _, l := range from.Lines {
		if err := c.AddItem(l); err != nil {
			return err
		}
	}
	if c.PromoCode == "" {
		c.PromoCode = from.PromoCode
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, actor domain.Actor, fn func(*domain.Cart) error) (*domain.Cart, error) {
	owner, err := ownerOf(actor)
	if err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		c, err := s.load(ctx, owner)
		if err != nil {
			return nil, err
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		err = s.repo.Save(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt == maxAttempts {
			return nil, err
		}
		s.logger.Debug("cart save conflict, retrying", zap.String("owner", owner), zap.Int("attempt", attempt))
	}
}

// lineColor maps a requested color onto the variant spelling stored in cart lines.
// Products no longer in the catalog keep the requested color as given.
func (s *Service) lineColor(ctx context.Context, productID, color string) (string, error) {
	color = strings.TrimSpace(color)
	p, err := s.products.Get(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return color, nil
	}
	if err != nil {
		return "", err
	}
	if resolved, ok := p.ResolveColor(color); ok {
		return resolved, nil
	}
	return color, nil
}

func (s *Service) load(ctx context.Context, owner string) (*domain.Cart, error) {
	c, err := s.repo.Get(ctx, owner)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewCart(owner), nil
	}
	return c, err
}

func ownerOf(actor domain.Actor) (string, error) {
	owner := actor.OwnerID()
	if owner == "" {
		return "", domain.ErrUnauthorized
	}
	return owner, nil
}
