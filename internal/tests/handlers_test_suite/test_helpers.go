package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/vendor-inventory/internal/http/router"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/session"
	"github.com/rogerio-castellano/vendor-inventory/internal/stock"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

const vendorID = "vendor-1"

var (
	token    string
	upstream *fakeAPI
)

func init() {
	upstream = newFakeAPI()
	srv := httptest.NewServer(upstream.routes())

	var err error
	token, err = signToken(vendorID, time.Now().Add(time.Hour))
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}

	accessor := session.NewAccessor(session.ContextProvider{}, session.DefaultVendorClaim)
	api := client.New(srv.URL, accessor)
	products := client.NewProducts(api)
	inventory := client.NewInventory(api)

	handlers.SetClient(api)
	handlers.SetIdentity(accessor)
	handlers.SetAdjuster(stock.NewAdjuster(accessor, inventory))
	handlers.SetUploader(images.NewUploader(accessor, products))
	handlers.SetDashboard(views.NewDashboard(inventory, products))
	handlers.SetTracker(views.NewTracker(views.NewMemorySequencer()))
}

func signToken(vendor string, exp time.Time) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                      "user-" + vendor,
		session.DefaultVendorClaim: vendor,
		"exp":                      exp.Unix(),
	}).SignedString([]byte("test-secret"))
}

func newRouter() http.Handler {
	return router.NewRouter()
}

func do(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		if s, ok := payload.(string); ok {
			body.WriteString(s)
		} else {
			_ = json.NewEncoder(&body).Encode(payload)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartImages(names []string, existing string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, name := range names {
		part, _ := writer.CreateFormFile("images", name)
		part.Write([]byte("image-bytes-of-" + name))
	}
	if existing != "" {
		writer.WriteField("existing", existing)
	}

	writer.Close()
	return &buf, writer.FormDataContentType()
}

// fakeAPI is an in-memory stand-in for the inventory API.
type fakeAPI struct {
	mu sync.Mutex

	products    map[string]models.Product
	skus        map[string][]models.SKU
	inventory   []models.InventoryItem
	adjustments []models.AdjustmentRequest
	uploads     []models.ImageUploadRequest
	orders      []string
	profile     models.VendorProfile
	lastQuery   map[string]string
	lastAuth    string
	nextID      int

	// failures maps "METHOD /path" to a status the fake answers with.
	failures map[string]int
	// failImage names an upload that is answered with 500.
	failImage string
	// onInventoryList runs inside GET /inventory before it answers.
	onInventoryList func()
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{}
	f.reset()
	return f
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = map[string]models.Product{}
	f.skus = map[string][]models.SKU{}
	f.inventory = nil
	f.adjustments = nil
	f.uploads = nil
	f.orders = nil
	f.profile = models.VendorProfile{VendorID: vendorID, BusinessName: "Acme", ContactEmail: "ops@acme.test"}
	f.lastQuery = map[string]string{}
	f.lastAuth = ""
	f.nextID = 0
	f.failures = map[string]int{}
	f.failImage = ""
	f.onInventoryList = nil
}

func (f *fakeAPI) setInventory(items ...models.InventoryItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inventory = items
}

func (f *fakeAPI) fail(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = status
}

func (f *fakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.lastAuth = req.Header.Get("Authorization")
			f.lastQuery[req.URL.Path] = req.URL.RawQuery
			status, failing := f.failures[req.Method+" "+req.URL.Path]
			f.mu.Unlock()
			if failing {
				w.WriteHeader(status)
				w.Write([]byte(`{"error":"injected failure"}`))
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/products", f.createProduct)
	r.Get("/products", f.listProducts)
	r.Get("/products/{id}", f.getProduct)
	r.Put("/products/{id}", f.updateProduct)
	r.Delete("/products/{id}", f.ack("deleted"))
	r.Get("/products/{id}/skus", f.listSKUs)
	r.Post("/products/{id}/skus", f.createSKU)
	r.Put("/products/{id}/skus/{sku}", f.ack("updated"))
	r.Post("/products/{id}/images/upload", f.uploadImage)
	r.Get("/inventory", f.listInventory)
	r.Get("/inventory/low-stock", f.lowStock)
	r.Get("/inventory/{id}/skus/{sku}", f.getItem)
	r.Post("/inventory/{id}/skus/{sku}/adjust", f.adjust)
	r.Get("/inventory/{id}/skus/{sku}/history", f.history)
	r.Get("/transactions", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"transactions":[{"transaction_id":"t-1"}]}`))
	})
	r.Post("/orders/{event}", f.order)
	r.Get("/vendor/profile", f.getProfile)
	r.Put("/vendor/profile", f.updateProfile)
	return r
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	reply(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (f *fakeAPI) ack(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]string{"message": message})
	}
}

func (f *fakeAPI) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		reply(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f.mu.Lock()
	f.nextID++
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	f.products[p.ID] = p
	f.mu.Unlock()
	reply(w, http.StatusCreated, models.ProductCreated{ProductID: p.ID, Message: "created"})
}

func (f *fakeAPI) listProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := models.ProductList{Products: []models.Product{}}
	for _, p := range f.products {
		list.Products = append(list.Products, p)
	}
	reply(w, http.StatusOK, list)
}

func (f *fakeAPI) getProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[chi.URLParam(r, "id")]
	if !ok {
		notFound(w)
		return
	}
	reply(w, http.StatusOK, p)
}

func (f *fakeAPI) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p models.Product
	json.NewDecoder(r.Body).Decode(&p)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		notFound(w)
		return
	}
	p.ID = id
	f.products[id] = p
	reply(w, http.StatusOK, map[string]string{"message": "updated"})
}

func (f *fakeAPI) listSKUs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply(w, http.StatusOK, models.SKUList{SKUs: f.skus[chi.URLParam(r, "id")]})
}

func (f *fakeAPI) createSKU(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var s models.SKU
	json.NewDecoder(r.Body).Decode(&s)
	f.mu.Lock()
	defer f.mu.Unlock()
	s.SKU = fmt.Sprintf("%s-sku-%d", id, len(f.skus[id])+1)
	f.skus[id] = append(f.skus[id], s)
	reply(w, http.StatusCreated, map[string]string{"sku": s.SKU})
}

func (f *fakeAPI) uploadImage(w http.ResponseWriter, r *http.Request) {
	var img models.ImageUploadRequest
	json.NewDecoder(r.Body).Decode(&img)
	f.mu.Lock()
	f.uploads = append(f.uploads, img)
	failing := img.ImageName == f.failImage
	f.mu.Unlock()
	if failing {
		reply(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}
	reply(w, http.StatusOK, models.ImageUploaded{ImageURL: "https://cdn.test/" + chi.URLParam(r, "id") + "/" + img.ImageName})
}

func (f *fakeAPI) listInventory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	hook := f.onInventoryList
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	reply(w, http.StatusOK, models.InventoryList{Inventory: f.inventory})
}

func (f *fakeAPI) lowStock(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := models.LowStockList{Items: []models.InventoryItem{}}
	for _, item := range f.inventory {
		if item.CurrentStock <= item.ReorderThreshold {
			list.Items = append(list.Items, item)
		}
	}
	reply(w, http.StatusOK, list)
}

func (f *fakeAPI) findItem(r *http.Request) int {
	for i, item := range f.inventory {
		if item.ProductID == chi.URLParam(r, "id") && item.SKU == chi.URLParam(r, "sku") {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) getItem(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.findItem(r)
	if i < 0 {
		notFound(w)
		return
	}
	reply(w, http.StatusOK, f.inventory[i])
}

func (f *fakeAPI) adjust(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustmentRequest
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.findItem(r)
	if i < 0 {
		notFound(w)
		return
	}
	f.adjustments = append(f.adjustments, req)
	f.inventory[i].CurrentStock += int(req.QuantityChange)
	reply(w, http.StatusOK, map[string]any{"message": "adjusted", "new_stock": f.inventory[i].CurrentStock})
}

func (f *fakeAPI) history(w http.ResponseWriter, r *http.Request) {
	reply(w, http.StatusOK, models.StockHistory{Transactions: []models.StockTransaction{{
		TransactionID:   "t-1",
		ProductID:       chi.URLParam(r, "id"),
		SKU:             chi.URLParam(r, "sku"),
		TransactionType: models.StockIn,
		QuantityChange:  5,
		StockBefore:     0,
		StockAfter:      5,
	}}})
}

func (f *fakeAPI) order(w http.ResponseWriter, r *http.Request) {
	var e models.OrderEvent
	json.NewDecoder(r.Body).Decode(&e)
	f.mu.Lock()
	f.orders = append(f.orders, chi.URLParam(r, "event")+":"+e.OrderID+":"+e.VendorID)
	f.mu.Unlock()
	reply(w, http.StatusOK, map[string]string{"status": "received"})
}

func (f *fakeAPI) getProfile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply(w, http.StatusOK, f.profile)
}

func (f *fakeAPI) updateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.VendorProfile
	json.NewDecoder(r.Body).Decode(&p)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = p
	reply(w, http.StatusOK, map[string]string{"message": "updated"})
}

func hasField(errs []handlers.ValidationError, field string) bool {
	for _, e := range errs {
		if strings.EqualFold(e.Field, field) {
			return true
		}
	}
	return false
}

func (f *fakeAPI) setSKUs(productID string, skus ...models.SKU) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skus[productID] = skus
}

func (f *fakeAPI) storedSKUs(productID string) []models.SKU {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SKU(nil), f.skus[productID]...)
}

func (f *fakeAPI) productCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products)
}

func (f *fakeAPI) adjustmentList() []models.AdjustmentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AdjustmentRequest(nil), f.adjustments...)
}

func (f *fakeAPI) uploadList() []models.ImageUploadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ImageUploadRequest(nil), f.uploads...)
}

func (f *fakeAPI) orderList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.orders...)
}

func (f *fakeAPI) auth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *fakeAPI) query(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery[path]
}
