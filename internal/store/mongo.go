package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"connectfarma-backend/internal/domain"
)

const (
	colProducts = "products"
	colUsers    = "users"
	colOrders   = "orders"
	colItems    = "order_items"
	colPayouts  = "payouts"
)

// MongoStore needs a replica set (or sharded cluster): Update uses multi-document transactions.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	repo   *mongoRepo
}

func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(database)
	s := &MongoStore{client: client, db: db, repo: &mongoRepo{db: db}}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "kisan_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "payout_status", Value: 1}}},
		},
		colProducts: {
			{Keys: bson.D{{Key: "farmer_id", Value: 1}, {Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "stock", Value: 1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "consumer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		colItems: {
			{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "position", Value: 1}}},
			{Keys: bson.D{{Key: "farmer_id", Value: 1}, {Key: "delivered", Value: 1}, {Key: "paid_out", Value: 1}, {Key: "ordered_at", Value: 1}}},
		},
		colPayouts: {
			{Keys: bson.D{{Key: "farmer_id", Value: 1}, {Key: "settled_at", Value: -1}}},
		},
	}
	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo indexes %s: %w", col, err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) View(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	return fn(ctx, s.repo)
}

func (s *MongoStore) Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s.repo)
	}, txOpts)
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoRepo struct {
	db *mongo.Database
}

func (r *mongoRepo) col(name string) *mongo.Collection { return r.db.Collection(name) }

type productDoc struct {
	ID          string               `bson:"_id"`
	FarmerID    string               `bson:"farmer_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	Price       primitive.Decimal128 `bson:"price"`
	Unit        string               `bson:"unit"`
	Stock       int                  `bson:"stock"`
	Category    string               `bson:"category"`
	ImagePath   string               `bson:"image_path,omitempty"`
	Approved    bool                 `bson:"is_approved"`
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Role         string    `bson:"role"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	ContactNo    string    `bson:"contact_no"`
	PasswordHash string    `bson:"password"`
	KisanID      string    `bson:"kisan_id,omitempty"`
	Pincode      string    `bson:"pincode,omitempty"`
	VillageName  string    `bson:"village_name,omitempty"`
	PayoutStatus string    `bson:"payout_status,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

type shippingDoc struct {
	FullName string `bson:"full_name"`
	Mobile   string `bson:"mobile"`
	Address  string `bson:"address"`
	Pincode  string `bson:"pincode"`
}

type orderDoc struct {
	ID            string               `bson:"_id"`
	ConsumerID    string               `bson:"consumer_id,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	TotalAmount   primitive.Decimal128 `bson:"total_amount"`
	Shipping      shippingDoc          `bson:"shipping"`
	PaymentMethod string               `bson:"payment_method"`
	Delivered     bool                 `bson:"is_delivered"`
}

type itemDoc struct {
	ID          string               `bson:"_id"`
	OrderID     string               `bson:"order_id"`
	Position    int                  `bson:"position"`
	ProductID   string               `bson:"product_id"`
	ProductName string               `bson:"product_name"`
	FarmerID    string               `bson:"farmer_id"`
	Quantity    int                  `bson:"quantity"`
	Price       primitive.Decimal128 `bson:"price"`
	PaidOut     bool                 `bson:"paid_out"`
	OrderedAt   time.Time            `bson:"ordered_at"`
	Delivered   bool                 `bson:"delivered"`
}

type receiptDoc struct {
	ID            string               `bson:"_id"`
	FarmerID      string               `bson:"farmer_id"`
	Total         primitive.Decimal128 `bson:"total"`
	ItemCount     int                  `bson:"item_count"`
	LineItemIDs   []string             `bson:"line_item_ids"`
	BankName      string               `bson:"bank_name"`
	AccountMasked string               `bson:"account_masked"`
	SettledAt     time.Time            `bson:"settled_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.StringFixed(domain.CurrencyPlaces))
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toProductDoc(p domain.Product) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID: p.ID, FarmerID: p.FarmerID, Name: p.Name, Description: p.Description,
		Price: price, Unit: string(p.Unit), Stock: p.Stock, Category: string(p.Category),
		ImagePath: p.ImagePath, Approved: p.Approved,
	}, nil
}

func (d productDoc) domain() domain.Product {
	return domain.Product{
		ID: d.ID, FarmerID: d.FarmerID, Name: d.Name, Description: d.Description,
		Price: fromDecimal128(d.Price), Unit: domain.Unit(d.Unit), Stock: d.Stock,
		Category: domain.Category(d.Category), ImagePath: d.ImagePath, Approved: d.Approved,
	}
}

func (d userDoc) domain() domain.User {
	return domain.User{
		ID: d.ID, Role: domain.Role(d.Role), Name: d.Name, Email: d.Email, ContactNo: d.ContactNo,
		PasswordHash: d.PasswordHash, KisanID: d.KisanID, Pincode: d.Pincode, VillageName: d.VillageName,
		PayoutStatus: domain.PayoutStatus(d.PayoutStatus), CreatedAt: d.CreatedAt,
	}
}

func (d itemDoc) domain() domain.LineItem {
	return domain.LineItem{
		ID: d.ID, OrderID: d.OrderID, ProductID: d.ProductID, ProductName: d.ProductName,
		FarmerID: d.FarmerID, Quantity: d.Quantity, Price: fromDecimal128(d.Price),
		PaidOut: d.PaidOut, OrderedAt: d.OrderedAt, Delivered: d.Delivered,
	}
}

func (d orderDoc) domain() domain.Order {
	return domain.Order{
		ID: d.ID, ConsumerID: d.ConsumerID, CreatedAt: d.CreatedAt,
		TotalAmount: fromDecimal128(d.TotalAmount),
		Shipping: domain.Shipping{
			FullName: d.Shipping.FullName, Mobile: d.Shipping.Mobile,
			Address: d.Shipping.Address, Pincode: d.Shipping.Pincode,
		},
		PaymentMethod: d.PaymentMethod, Delivered: d.Delivered,
	}
}

func (d receiptDoc) domain() domain.Receipt {
	return domain.Receipt{
		ID: d.ID, FarmerID: d.FarmerID, Total: fromDecimal128(d.Total), ItemCount: d.ItemCount,
		LineItemIDs: d.LineItemIDs, BankName: d.BankName, AccountMasked: d.AccountMasked,
		SettledAt: d.SettledAt,
	}
}

func wrapWrite(what string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", what, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M, kind, id string) (T, error) {
	var doc T
	err := col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, domain.NotFound(kind, id)
	}
	if err != nil {
		return doc, fmt.Errorf("find %s %s: %w", kind, id, err)
	}
	return doc, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return docs, nil
}

func (r *mongoRepo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	doc, err := findOne[productDoc](ctx, r.col(colProducts), bson.M{"_id": id}, "product", id)
	if err != nil {
		return domain.Product{}, err
	}
	return doc.domain(), nil
}

func (r *mongoRepo) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	q := bson.M{}
	if filter.FarmerID != "" {
		q["farmer_id"] = filter.FarmerID
	}
	if filter.Category != "" {
		q["category"] = string(filter.Category)
	}
	if filter.AvailableOnly {
		q["stock"] = bson.M{"$gt": 0}
		q["price"] = bson.M{"$gt": primitive.NewDecimal128(0, 0)}
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	docs, err := findAll[productDoc](ctx, r.col(colProducts), q, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *mongoRepo) InsertProduct(ctx context.Context, p domain.Product) error {
	doc, err := toProductDoc(p)
	if err != nil {
		return err
	}
	if _, err := r.col(colProducts).InsertOne(ctx, doc); err != nil {
		return wrapWrite("insert product", err)
	}
	return nil
}

func (r *mongoRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	doc, err := toProductDoc(p)
	if err != nil {
		return err
	}
	res, err := r.col(colProducts).ReplaceOne(ctx, bson.M{"_id": p.ID}, doc)
	if err != nil {
		return wrapWrite("update product", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("product", p.ID)
	}
	return nil
}

func (r *mongoRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.col(colProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

// DecrementStock only matches while stock covers qty. Inside a transaction the matched
// document is write-locked, so a concurrent checkout on the same product conflicts and retries.
func (r *mongoRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.col(colProducts).UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock %s: %w", id, err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	p, err := r.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	return &domain.StockError{Shortages: []domain.Shortage{{
		ProductID: p.ID, ProductName: p.Name, Requested: qty, Available: p.Stock,
	}}}
}

func (r *mongoRepo) ApproveProducts(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.col(colProducts).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"is_approved": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("approve products: %w", err)
	}
	return int(res.MatchedCount), nil
}

func (r *mongoRepo) InsertOrder(ctx context.Context, o domain.Order) error {
	total, err := toDecimal128(o.TotalAmount)
	if err != nil {
		return err
	}
	doc := orderDoc{
		ID: o.ID, ConsumerID: o.ConsumerID, CreatedAt: o.CreatedAt, TotalAmount: total,
		Shipping: shippingDoc{
			FullName: o.Shipping.FullName, Mobile: o.Shipping.Mobile,
			Address: o.Shipping.Address, Pincode: o.Shipping.Pincode,
		},
		PaymentMethod: o.PaymentMethod, Delivered: o.Delivered,
	}
	if _, err := r.col(colOrders).InsertOne(ctx, doc); err != nil {
		return wrapWrite("insert order", err)
	}
	if len(o.Items) == 0 {
		return nil
	}
	items := make([]interface{}, 0, len(o.Items))
	for i, li := range o.Items {
		price, err := toDecimal128(li.Price)
		if err != nil {
			return err
		}
		items = append(items, itemDoc{
			ID: li.ID, OrderID: o.ID, Position: i, ProductID: li.ProductID,
			ProductName: li.ProductName, FarmerID: li.FarmerID, Quantity: li.Quantity,
			Price: price, PaidOut: li.PaidOut, OrderedAt: o.CreatedAt, Delivered: o.Delivered,
		})
	}
	if _, err := r.col(colItems).InsertMany(ctx, items); err != nil {
		return wrapWrite("insert order items", err)
	}
	return nil
}

func (r *mongoRepo) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	doc, err := findOne[orderDoc](ctx, r.col(colOrders), bson.M{"_id": id}, "order", id)
	if err != nil {
		return domain.Order{}, err
	}
	orders, err := r.attachItems(ctx, []orderDoc{doc})
	if err != nil {
		return domain.Order{}, err
	}
	return orders[0], nil
}

func (r *mongoRepo) attachItems(ctx context.Context, docs []orderDoc) ([]domain.Order, error) {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	opts := options.Find().SetSort(bson.D{{Key: "order_id", Value: 1}, {Key: "position", Value: 1}})
	items, err := findAll[itemDoc](ctx, r.col(colItems), bson.M{"order_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.LineItem, len(docs))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it.domain())
	}
	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o := d.domain()
		o.Items = byOrder[d.ID]
		out = append(out, o)
	}
	return out, nil
}

func (r *mongoRepo) ListOrdersByConsumer(ctx context.Context, consumerID string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	docs, err := findAll[orderDoc](ctx, r.col(colOrders), bson.M{"consumer_id": consumerID}, opts)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return r.attachItems(ctx, docs)
}

func (r *mongoRepo) ListLineItems(ctx context.Context, filter LineItemFilter) ([]domain.LineItem, error) {
	q := bson.M{}
	if filter.FarmerID != "" {
		q["farmer_id"] = filter.FarmerID
	}
	if filter.OrderID != "" {
		q["order_id"] = filter.OrderID
	}
	if filter.Delivered != nil {
		q["delivered"] = *filter.Delivered
	}
	if filter.PaidOut != nil {
		q["paid_out"] = *filter.PaidOut
	}
	dir := 1
	if filter.NewestFirst {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "ordered_at", Value: dir}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	docs, err := findAll[itemDoc](ctx, r.col(colItems), q, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LineItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *mongoRepo) MarkDelivered(ctx context.Context, orderID string) (bool, error) {
	res, err := r.col(colOrders).UpdateOne(ctx,
		bson.M{"_id": orderID, "is_delivered": false},
		bson.M{"$set": bson.M{"is_delivered": true}},
	)
	if err != nil {
		return false, fmt.Errorf("mark delivered %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetOrder(ctx, orderID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := r.col(colItems).UpdateMany(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{"delivered": true}},
	); err != nil {
		return false, fmt.Errorf("mark items delivered %s: %w", orderID, err)
	}
	return true, nil
}

func (r *mongoRepo) MarkPaidOut(ctx context.Context, itemIDs []string) (int, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res, err := r.col(colItems).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": itemIDs}, "delivered": true, "paid_out": false},
		bson.M{"$set": bson.M{"paid_out": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark paid out: %w", err)
	}
	return int(res.ModifiedCount), nil
}

func (r *mongoRepo) InsertUser(ctx context.Context, u domain.User) error {
	doc := userDoc{
		ID: u.ID, Role: string(u.Role), Name: u.Name, Email: u.Email, ContactNo: u.ContactNo,
		PasswordHash: u.PasswordHash, KisanID: u.KisanID, Pincode: u.Pincode,
		VillageName: u.VillageName, PayoutStatus: string(u.PayoutStatus), CreatedAt: u.CreatedAt,
	}
	if _, err := r.col(colUsers).InsertOne(ctx, doc); err != nil {
		return wrapWrite("insert user "+u.Email, err)
	}
	return nil
}

func (r *mongoRepo) GetUser(ctx context.Context, id string) (domain.User, error) {
	doc, err := findOne[userDoc](ctx, r.col(colUsers), bson.M{"_id": id}, "user", id)
	if err != nil {
		return domain.User{}, err
	}
	return doc.domain(), nil
}

// Emails are normalised to lower case before they reach the store.
func (r *mongoRepo) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	doc, err := findOne[userDoc](ctx, r.col(colUsers), bson.M{"email": email}, "user", email)
	if err != nil {
		return domain.User{}, err
	}
	return doc.domain(), nil
}

func (r *mongoRepo) FindFarmerByKisanID(ctx context.Context, kisanID string) (domain.User, error) {
	filter := bson.M{"kisan_id": kisanID, "role": string(domain.RoleFarmer)}
	doc, err := findOne[userDoc](ctx, r.col(colUsers), filter, "farmer", kisanID)
	if err != nil {
		return domain.User{}, err
	}
	return doc.domain(), nil
}

func (r *mongoRepo) ListFarmers(ctx context.Context, status domain.PayoutStatus) ([]domain.User, error) {
	q := bson.M{"role": string(domain.RoleFarmer)}
	if status != "" {
		q["payout_status"] = string(status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	docs, err := findAll[userDoc](ctx, r.col(colUsers), q, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *mongoRepo) TransitionPayout(ctx context.Context, farmerID string, from, to domain.PayoutStatus) error {
	res, err := r.col(colUsers).UpdateOne(ctx,
		bson.M{"_id": farmerID, "role": string(domain.RoleFarmer), "payout_status": string(from)},
		bson.M{"$set": bson.M{"payout_status": string(to)}},
	)
	if err != nil {
		return fmt.Errorf("payout transition %s: %w", farmerID, err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	u, err := r.GetUser(ctx, farmerID)
	if err != nil {
		return err
	}
	if u.Role != domain.RoleFarmer {
		return domain.NotFound("farmer", farmerID)
	}
	return fmt.Errorf("farmer %s payout is %s, not %s: %w", farmerID, u.PayoutStatus, from, domain.ErrConflict)
}

func (r *mongoRepo) InsertReceipt(ctx context.Context, rc domain.Receipt) error {
	total, err := toDecimal128(rc.Total)
	if err != nil {
		return err
	}
	doc := receiptDoc{
		ID: rc.ID, FarmerID: rc.FarmerID, Total: total, ItemCount: rc.ItemCount,
		LineItemIDs: rc.LineItemIDs, BankName: rc.BankName, AccountMasked: rc.AccountMasked,
		SettledAt: rc.SettledAt,
	}
	if _, err := r.col(colPayouts).InsertOne(ctx, doc); err != nil {
		return wrapWrite("insert receipt", err)
	}
	return nil
}

func (r *mongoRepo) ListReceipts(ctx context.Context, farmerID string) ([]domain.Receipt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "settled_at", Value: -1}, {Key: "_id", Value: -1}})
	docs, err := findAll[receiptDoc](ctx, r.col(colPayouts), bson.M{"farmer_id": farmerID}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Receipt, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}
