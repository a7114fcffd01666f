package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/store"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeStore is an in-memory store.Store. Transaction clones the state and
// commits the clone only when fn succeeds, so rollback behaviour matches the
// real database. All access is serialized through one mutex.
type fakeStore struct {
	mu    *sync.Mutex
	state *fakeState
	inTx  bool
}

type fakeState struct {
	nextID uint

	users         map[string]models.User
	carts         map[uint]models.Cart
	cartItems     map[uint]models.CartItem
	shops         map[uint]models.Shop
	products      map[uint]models.Product
	variants      map[uint]models.ProductVariant
	orders        map[uint]models.Order
	transactions  map[uint]models.Transaction
	shipments     map[uint]models.Shipment
	returns       map[uint]models.ReturnRequest
	conversations map[uint]models.Conversation
	messages      map[uint]models.Message
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		mu: &sync.Mutex{},
		state: &fakeState{
			users:         map[string]models.User{},
			carts:         map[uint]models.Cart{},
			cartItems:     map[uint]models.CartItem{},
			shops:         map[uint]models.Shop{},
			products:      map[uint]models.Product{},
			variants:      map[uint]models.ProductVariant{},
			orders:        map[uint]models.Order{},
			transactions:  map[uint]models.Transaction{},
			shipments:     map[uint]models.Shipment{},
			returns:       map[uint]models.ReturnRequest{},
			conversations: map[uint]models.Conversation{},
			messages:      map[uint]models.Message{},
		},
	}
}

func (st *fakeState) clone() *fakeState {
	c := &fakeState{
		nextID:        st.nextID,
		users:         map[string]models.User{},
		carts:         map[uint]models.Cart{},
		cartItems:     map[uint]models.CartItem{},
		shops:         map[uint]models.Shop{},
		products:      map[uint]models.Product{},
		variants:      map[uint]models.ProductVariant{},
		orders:        map[uint]models.Order{},
		transactions:  map[uint]models.Transaction{},
		shipments:     map[uint]models.Shipment{},
		returns:       map[uint]models.ReturnRequest{},
		conversations: map[uint]models.Conversation{},
		messages:      map[uint]models.Message{},
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.carts {
		v.Items = nil
		c.carts[k] = v
	}
	for k, v := range st.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range st.shops {
		c.shops[k] = v
	}
	for k, v := range st.products {
		v.Variants = nil
		c.products[k] = v
	}
	for k, v := range st.variants {
		c.variants[k] = v
	}
	for k, v := range st.orders {
		v.Items = append([]models.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range st.transactions {
		c.transactions[k] = v
	}
	for k, v := range st.shipments {
		c.shipments[k] = v
	}
	for k, v := range st.returns {
		c.returns[k] = v
	}
	for k, v := range st.conversations {
		v.Messages = nil
		c.conversations[k] = v
	}
	for k, v := range st.messages {
		c.messages[k] = v
	}
	return c
}

func (s *fakeStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &fakeStore{mu: s.mu, state: s.state.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (st *fakeState) id() uint {
	st.nextID++
	return st.nextID
}

// Users

func (s *fakeStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	defer s.lock()()
	u, ok := s.state.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *fakeStore) CreateUser(ctx context.Context, u *models.User) error {
	defer s.lock()()
	if _, ok := s.state.users[u.ID]; ok {
		return store.ErrDuplicate
	}
	s.state.users[u.ID] = *u
	return nil
}

func (s *fakeStore) SaveUser(ctx context.Context, u *models.User) error {
	defer s.lock()()
	s.state.users[u.ID] = *u
	return nil
}

// Carts

func (s *fakeStore) itemsOf(cartID uint) []models.CartItem {
	var items []models.CartItem
	for _, item := range s.state.cartItems {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *fakeStore) CartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	defer s.lock()()
	for _, c := range s.state.carts {
		if userID != "" && c.UserID == userID {
			c.Items = s.itemsOf(c.CartID)
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) CartBySession(ctx context.Context, sessionID string) (*models.Cart, error) {
	defer s.lock()()
	for _, c := range s.state.carts {
		if sessionID != "" && c.SessionID == sessionID {
			c.Items = s.itemsOf(c.CartID)
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) CartByID(ctx context.Context, id uint) (*models.Cart, error) {
	defer s.lock()()
	c, ok := s.state.carts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Items = s.itemsOf(c.CartID)
	return &c, nil
}

func (s *fakeStore) CreateCart(ctx context.Context, c *models.Cart) error {
	defer s.lock()()
	for _, existing := range s.state.carts {
		if (c.UserID != "" && existing.UserID == c.UserID) ||
			(c.SessionID != "" && existing.SessionID == c.SessionID) {
			return store.ErrDuplicate
		}
	}
	c.CartID = s.state.id()
	c.CreatedAt = time.Now()
	stored := *c
	stored.Items = nil
	s.state.carts[c.CartID] = stored
	return nil
}

func (s *fakeStore) DeleteCart(ctx context.Context, cartID uint) error {
	defer s.lock()()
	if _, ok := s.state.carts[cartID]; !ok {
		return store.ErrNotFound
	}
	delete(s.state.carts, cartID)
	for id, item := range s.state.cartItems {
		if item.CartID == cartID {
			delete(s.state.cartItems, id)
		}
	}
	return nil
}

func (s *fakeStore) CartItemByID(ctx context.Context, id uint) (*models.CartItem, error) {
	defer s.lock()()
	item, ok := s.state.cartItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (s *fakeStore) CartItem(ctx context.Context, cartID, variantID uint) (*models.CartItem, error) {
	defer s.lock()()
	for _, item := range s.state.cartItems {
		if item.CartID == cartID && item.VariantID == variantID {
			return &item, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	defer s.lock()()
	for _, existing := range s.state.cartItems {
		if existing.CartID == item.CartID && existing.VariantID == item.VariantID {
			return store.ErrDuplicate
		}
	}
	item.ID = s.state.id()
	s.state.cartItems[item.ID] = *item
	return nil
}

func (s *fakeStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	defer s.lock()()
	if _, ok := s.state.cartItems[item.ID]; !ok {
		return store.ErrNotFound
	}
	s.state.cartItems[item.ID] = *item
	return nil
}

func (s *fakeStore) DeleteCartItem(ctx context.Context, id uint) error {
	defer s.lock()()
	if _, ok := s.state.cartItems[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.state.cartItems, id)
	return nil
}

func (s *fakeStore) CountCartItems(ctx context.Context, cartID uint) (int64, error) {
	defer s.lock()()
	var n int64
	for _, item := range s.state.cartItems {
		if item.CartID == cartID {
			n++
		}
	}
	return n, nil
}

// Catalog

func (s *fakeStore) ShopByID(ctx context.Context, id uint) (*models.Shop, error) {
	defer s.lock()()
	shop, ok := s.state.shops[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &shop, nil
}

func (s *fakeStore) ListShops(ctx context.Context) ([]models.Shop, error) {
	defer s.lock()()
	var shops []models.Shop
	for _, shop := range s.state.shops {
		shops = append(shops, shop)
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].ID < shops[j].ID })
	return shops, nil
}

func (s *fakeStore) ShopsByOwner(ctx context.Context, ownerID string) ([]models.Shop, error) {
	defer s.lock()()
	var shops []models.Shop
	for _, shop := range s.state.shops {
		if shop.OwnerID == ownerID {
			shops = append(shops, shop)
		}
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].ID < shops[j].ID })
	return shops, nil
}

func (s *fakeStore) variantsOf(productID uint) []models.ProductVariant {
	var variants []models.ProductVariant
	for _, v := range s.state.variants {
		if v.ProductID == productID {
			variants = append(variants, v)
		}
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].ID < variants[j].ID })
	return variants
}

func (s *fakeStore) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	defer s.lock()()
	p, ok := s.state.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Variants = s.variantsOf(p.ID)
	return &p, nil
}

func (s *fakeStore) ListProducts(ctx context.Context, shopID uint, limit, offset int) ([]models.Product, error) {
	defer s.lock()()
	var products []models.Product
	for _, p := range s.state.products {
		if shopID != 0 && p.ShopID != shopID {
			continue
		}
		p.Variants = s.variantsOf(p.ID)
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	if offset > len(products) {
		offset = len(products)
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

func (s *fakeStore) CreateProduct(ctx context.Context, p *models.Product) error {
	defer s.lock()()
	p.ID = s.state.id()
	for i := range p.Variants {
		p.Variants[i].ID = s.state.id()
		p.Variants[i].ProductID = p.ID
		s.state.variants[p.Variants[i].ID] = p.Variants[i]
	}
	stored := *p
	stored.Variants = nil
	s.state.products[p.ID] = stored
	return nil
}

func (s *fakeStore) SaveProduct(ctx context.Context, p *models.Product) error {
	defer s.lock()()
	if _, ok := s.state.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *p
	stored.Variants = nil
	s.state.products[p.ID] = stored
	return nil
}

func (s *fakeStore) DeleteProduct(ctx context.Context, id uint) error {
	defer s.lock()()
	if _, ok := s.state.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.state.products, id)
	for vid, v := range s.state.variants {
		if v.ProductID == id {
			delete(s.state.variants, vid)
		}
	}
	return nil
}

func (s *fakeStore) AddProductSales(ctx context.Context, productID uint, qty int) error {
	defer s.lock()()
	p, ok := s.state.products[productID]
	if !ok {
		return store.ErrNotFound
	}
	p.SalesCount += qty
	s.state.products[productID] = p
	return nil
}

func (s *fakeStore) VariantByID(ctx context.Context, id uint) (*models.ProductVariant, error) {
	defer s.lock()()
	v, ok := s.state.variants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (s *fakeStore) VariantForUpdate(ctx context.Context, id uint) (*models.ProductVariant, error) {
	return s.VariantByID(ctx, id)
}

func (s *fakeStore) SaveVariant(ctx context.Context, v *models.ProductVariant) error {
	defer s.lock()()
	if _, ok := s.state.variants[v.ID]; !ok {
		return store.ErrNotFound
	}
	s.state.variants[v.ID] = *v
	return nil
}

func (s *fakeStore) LowStockVariants(ctx context.Context, shopID uint) ([]models.ProductVariant, error) {
	defer s.lock()()
	var low []models.ProductVariant
	for _, v := range s.state.variants {
		p, ok := s.state.products[v.ProductID]
		if !ok || p.ShopID != shopID {
			continue
		}
		if v.Stock <= v.LowStockThreshold {
			low = append(low, v)
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i].ID < low[j].ID })
	return low, nil
}

// Orders

func (s *fakeStore) CreateOrder(ctx context.Context, o *models.Order) error {
	defer s.lock()()
	o.ID = s.state.id()
	for i := range o.Items {
		o.Items[i].ID = s.state.id()
		o.Items[i].OrderID = o.ID
	}
	stored := *o
	stored.Items = append([]models.OrderItem(nil), o.Items...)
	s.state.orders[o.ID] = stored
	return nil
}

func (s *fakeStore) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	defer s.lock()()
	o, ok := s.state.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return &o, nil
}

func (s *fakeStore) OrderByRef(ctx context.Context, ref string) (*models.Order, error) {
	defer s.lock()()
	for _, o := range s.state.orders {
		if o.OrderRef == ref {
			o.Items = append([]models.OrderItem(nil), o.Items...)
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	defer s.lock()()
	var orders []models.Order
	for _, o := range s.state.orders {
		if o.UserID == userID {
			o.Items = append([]models.OrderItem(nil), o.Items...)
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (s *fakeStore) SaveOrder(ctx context.Context, o *models.Order) error {
	defer s.lock()()
	if _, ok := s.state.orders[o.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *o
	stored.Items = append([]models.OrderItem(nil), o.Items...)
	s.state.orders[o.ID] = stored
	return nil
}

func (s *fakeStore) OrdersBetween(ctx context.Context, shopID uint, from, to time.Time) ([]models.Order, error) {
	defer s.lock()()
	var orders []models.Order
	for _, o := range s.state.orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		if shopID != 0 {
			matched := false
			for _, item := range o.Items {
				if item.ShopID == shopID {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		o.Items = append([]models.OrderItem(nil), o.Items...)
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (s *fakeStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	defer s.lock()()
	for _, existing := range s.state.transactions {
		if existing.OrderID == t.OrderID {
			return store.ErrDuplicate
		}
	}
	t.ID = s.state.id()
	s.state.transactions[t.ID] = *t
	return nil
}

func (s *fakeStore) TransactionByOrder(ctx context.Context, orderID uint) (*models.Transaction, error) {
	defer s.lock()()
	for _, t := range s.state.transactions {
		if t.OrderID == orderID {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) TransactionByReference(ctx context.Context, ref string) (*models.Transaction, error) {
	defer s.lock()()
	for _, t := range s.state.transactions {
		if t.Reference == ref {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) SaveTransaction(ctx context.Context, t *models.Transaction) error {
	defer s.lock()()
	if _, ok := s.state.transactions[t.ID]; !ok {
		return store.ErrNotFound
	}
	s.state.transactions[t.ID] = *t
	return nil
}

func (s *fakeStore) ShipmentByOrder(ctx context.Context, orderID uint) (*models.Shipment, error) {
	defer s.lock()()
	for _, sh := range s.state.shipments {
		if sh.OrderID == orderID {
			return &sh, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) CreateShipment(ctx context.Context, sh *models.Shipment) error {
	defer s.lock()()
	for _, existing := range s.state.shipments {
		if existing.OrderID == sh.OrderID {
			return store.ErrDuplicate
		}
	}
	sh.ID = s.state.id()
	s.state.shipments[sh.ID] = *sh
	return nil
}

func (s *fakeStore) SaveShipment(ctx context.Context, sh *models.Shipment) error {
	defer s.lock()()
	if _, ok := s.state.shipments[sh.ID]; !ok {
		return store.ErrNotFound
	}
	s.state.shipments[sh.ID] = *sh
	return nil
}

func (s *fakeStore) ReturnRequestByOrder(ctx context.Context, orderID uint) (*models.ReturnRequest, error) {
	defer s.lock()()
	for _, r := range s.state.returns {
		if r.OrderID == orderID {
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) CreateReturnRequest(ctx context.Context, r *models.ReturnRequest) error {
	defer s.lock()()
	for _, existing := range s.state.returns {
		if existing.OrderID == r.OrderID {
			return store.ErrDuplicate
		}
	}
	r.ID = s.state.id()
	s.state.returns[r.ID] = *r
	return nil
}

// Chat

func (s *fakeStore) ConversationByID(ctx context.Context, id uint) (*models.Conversation, error) {
	defer s.lock()()
	c, ok := s.state.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *fakeStore) ConversationFor(ctx context.Context, userID string, shopID uint) (*models.Conversation, error) {
	defer s.lock()()
	for _, c := range s.state.conversations {
		if c.UserID == userID && c.ShopID == shopID {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) CreateConversation(ctx context.Context, c *models.Conversation) error {
	defer s.lock()()
	for _, existing := range s.state.conversations {
		if existing.UserID == c.UserID && existing.ShopID == c.ShopID {
			return store.ErrDuplicate
		}
	}
	c.ID = s.state.id()
	s.state.conversations[c.ID] = *c
	return nil
}

func (s *fakeStore) ConversationsByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	defer s.lock()()
	var convs []models.Conversation
	for _, c := range s.state.conversations {
		if c.UserID == userID {
			convs = append(convs, c)
		}
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].ID < convs[j].ID })
	return convs, nil
}

func (s *fakeStore) ConversationsByShop(ctx context.Context, shopID uint) ([]models.Conversation, error) {
	defer s.lock()()
	var convs []models.Conversation
	for _, c := range s.state.conversations {
		if c.ShopID == shopID {
			convs = append(convs, c)
		}
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].ID < convs[j].ID })
	return convs, nil
}

func (s *fakeStore) MessagesByConversation(ctx context.Context, convID uint, limit, offset int) ([]models.Message, error) {
	defer s.lock()()
	var msgs []models.Message
	for _, m := range s.state.messages {
		if m.ConversationID == convID {
			msgs = append(msgs, m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID < msgs[j].ID })
	if offset > len(msgs) {
		offset = len(msgs)
	}
	msgs = msgs[offset:]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (s *fakeStore) CreateMessage(ctx context.Context, m *models.Message) error {
	defer s.lock()()
	m.ID = s.state.id()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.state.messages[m.ID] = *m
	return nil
}

// seedShop and seedProduct insert catalog rows directly, outside the Store
// interface, the way fixtures would exist in the database already.
func (s *fakeStore) seedShop(ownerID, name string) *models.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop := models.Shop{ID: s.state.id(), OwnerID: ownerID, Name: name}
	s.state.shops[shop.ID] = shop
	return &shop
}

func (s *fakeStore) seedProduct(shopID uint, name string, price float64, stock int) (*models.Product, *models.ProductVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Product{ID: s.state.id(), ShopID: shopID, Name: name}
	s.state.products[p.ID] = p
	v := models.ProductVariant{ID: s.state.id(), ProductID: p.ID, Price: price, Stock: stock, LowStockThreshold: 5}
	s.state.variants[v.ID] = v
	return &p, &v
}

var _ store.Store = (*fakeStore)(nil)
