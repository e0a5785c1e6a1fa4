package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/storefront-backend/internal/i18n"
	"github.com/javajoker/storefront-backend/internal/middleware"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/services"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
}

func notFound(code string) error {
	return &services.Error{Kind: services.ErrNotFound, Code: code, Message: "missing"}
}

// fakeCatalog serves products, brands and categories from memory.
type fakeCatalog struct {
	products   []models.Product
	brands     []models.Brand
	categories []models.Category
	err        error
	deleted    []uuid.UUID
}

func (f *fakeCatalog) find(id uuid.UUID) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, notFound(services.CodeProductNotFound)
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return f.find(id)
}

func (f *fakeCatalog) GetBrandProduct(ctx context.Context, brandName string, id uuid.UUID) (*models.Product, error) {
	p, err := f.find(id)
	if err != nil || p.Brand.Name != brandName {
		return nil, notFound(services.CodeProductNotFound)
	}
	return p, nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, req *services.CreateProductRequest) (*models.Product, error) {
	p := models.Product{Name: req.Name, BrandID: req.BrandID, Price: req.Price, Quantity: req.Quantity}
	p.ID = uuid.New()
	p.Brand = &models.Brand{Name: "acme"}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, id uuid.UUID, req *services.UpdateProductRequest) (*models.Product, error) {
	p, err := f.find(id)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	return p, nil
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := f.find(id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalog) ListProductImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	p, err := f.find(productID)
	if err != nil {
		return nil, err
	}
	return p.Images, nil
}

func (f *fakeCatalog) DeleteProductImage(ctx context.Context, id uuid.UUID) error {
	return notFound(services.CodeImageNotFound)
}

func (f *fakeCatalog) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return f.brands, nil
}

func (f *fakeCatalog) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	return nil, notFound(services.CodeBrandNotFound)
}

func (f *fakeCatalog) CreateBrand(ctx context.Context, req *services.BrandRequest) (*models.Brand, error) {
	b := models.Brand{Name: req.Name}
	b.ID = uuid.New()
	f.brands = append(f.brands, b)
	return &b, nil
}

func (f *fakeCatalog) UpdateBrand(ctx context.Context, id uuid.UUID, req *services.BrandRequest) (*models.Brand, error) {
	return nil, notFound(services.CodeBrandNotFound)
}

func (f *fakeCatalog) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return &services.Error{Kind: services.ErrConflict, Code: services.CodeBrandInUse, Message: "brand still has products"}
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, notFound(services.CodeCategoryNotFound)
}

func (f *fakeCatalog) CreateCategory(ctx context.Context, req *services.CategoryRequest) (*models.Category, error) {
	c := models.Category{ID: uint(len(f.categories) + 1), Name: req.Name}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeCatalog) UpdateCategory(ctx context.Context, id uint, req *services.CategoryRequest) (*models.Category, error) {
	c, err := f.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	return c, nil
}

func (f *fakeCatalog) DeleteCategory(ctx context.Context, id uint) error {
	_, err := f.GetCategory(ctx, id)
	return err
}

type fakeIngester struct {
	got *services.IngestRequest
	err error
}

func (f *fakeIngester) Ingest(ctx context.Context, req *services.IngestRequest) (*services.IngestResult, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.IngestResult{TotalInserted: len(req.Products), BrandsResolved: 1}, nil
}

type fakeUploader struct {
	product string
	brand   string
	data    []byte
	err     error
}

func (f *fakeUploader) UploadProductImage(ctx context.Context, req *services.UploadImageRequest) (*models.ProductImage, error) {
	f.product, f.brand = req.ProductName, req.BrandName
	data, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, err
	}
	f.data = data
	if f.err != nil {
		return nil, f.err
	}
	return &models.ProductImage{ID: uuid.New(), ProductID: uuid.New(), URL: "https://cdn.example.com/acme/x.png"}, nil
}

type fakePurger struct {
	calls int
}

func (f *fakePurger) PurgeAll(ctx context.Context) (*services.PurgeResult, error) {
	f.calls++
	return &services.PurgeResult{BrandsScanned: 2, ObjectsDeleted: 3, TablesPurged: models.CatalogTables}, nil
}

type fakeAccounts struct {
	users map[string]*models.User
}

func (f *fakeAccounts) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username != username {
			continue
		}
		if u.CheckPassword(password) != nil {
			return nil, &services.Error{Kind: services.ErrUnauthorized, Code: services.CodeInvalidPassword, Message: "incorrect password"}
		}
		return u, nil
	}
	return nil, &services.Error{Kind: services.ErrNotFound, Code: services.CodeUserNotFound, Message: "incorrect username"}
}

func (f *fakeAccounts) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeAccounts) GetUser(ctx context.Context, idNumber string) (*models.User, error) {
	if u, ok := f.users[idNumber]; ok {
		return u, nil
	}
	return nil, notFound(services.CodeUserNotFound)
}

func (f *fakeAccounts) CreateUser(ctx context.Context, req *services.CreateUserRequest) (*models.User, error) {
	return nil, &services.Error{Kind: services.ErrConflict, Code: services.CodeAlreadyExists, Message: "username, email or id number is already taken"}
}

func (f *fakeAccounts) UpdateUser(ctx context.Context, idNumber string, req *services.UpdateUserRequest) (*models.User, error) {
	u, err := f.GetUser(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	return u, nil
}

func (f *fakeAccounts) DeleteUser(ctx context.Context, idNumber string) error {
	if _, err := f.GetUser(ctx, idNumber); err != nil {
		return err
	}
	delete(f.users, idNumber)
	return nil
}

type fakeOrders struct {
	summaries []services.OrderSummary
	err       error
}

func (f *fakeOrders) Summaries(ctx context.Context) ([]services.OrderSummary, error) {
	return f.summaries, f.err
}

func (f *fakeOrders) Summary(ctx context.Context, id uuid.UUID) (*services.OrderSummary, error) {
	for i := range f.summaries {
		if f.summaries[i].OrderID == id {
			return &f.summaries[i], nil
		}
	}
	return nil, notFound(services.CodeOrderNotFound)
}

func (f *fakeOrders) CreateOrder(ctx context.Context, req *services.CreateOrderRequest) (*models.Order, error) {
	return nil, &services.Error{Kind: services.ErrValidation, Code: services.CodeInvalidDiscount, Message: "discount must be between 0 and 1"}
}

func (f *fakeOrders) UpdateOrder(ctx context.Context, id uuid.UUID, req *services.UpdateOrderRequest) (*models.Order, error) {
	return nil, notFound(services.CodeOrderNotFound)
}

func (f *fakeOrders) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeStats struct{}

func (fakeStats) GetDashboardStats(ctx context.Context) (*services.AdminDashboardStats, error) {
	return &services.AdminDashboardStats{TotalProducts: 4, TotalRevenue: "20.00"}, nil
}

type HandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	tokens   *utils.TokenManager
	catalog  *fakeCatalog
	ingester *fakeIngester
	uploader *fakeUploader
	purger   *fakePurger
	accounts *fakeAccounts
	orders   *fakeOrders
	product  models.Product
	user     *models.User
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(i18n.Initialize())
	s.tokens = utils.NewTokenManager("test-secret", 1)
}

func (s *HandlerTestSuite) SetupTest() {
	s.product = models.Product{Name: "Widget", Price: decimal.RequireFromString("15"), Quantity: 3}
	s.product.ID = uuid.New()
	s.product.Brand = &models.Brand{Name: "acme"}
	s.product.Images = []models.ProductImage{{ID: uuid.New(), URL: "https://cdn.example.com/acme/w.png"}}

	s.user = &models.User{
		IDNumber:    "3201010101010001",
		Username:    "jane",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Address:     &models.UserAddress{Line1: "Jl. Merdeka 1", City: "Bandung", ZipCode: 40111},
	}
	s.Require().NoError(s.user.SetPassword("correct-horse"))

	s.catalog = &fakeCatalog{
		products:   []models.Product{s.product},
		categories: []models.Category{{ID: 1, Name: "tools"}},
	}
	s.ingester = &fakeIngester{}
	s.uploader = &fakeUploader{}
	s.purger = &fakePurger{}
	s.accounts = &fakeAccounts{users: map[string]*models.User{s.user.IDNumber: s.user}}
	s.orders = &fakeOrders{summaries: []services.OrderSummary{{
		OrderID:    uuid.New(),
		UserID:     s.user.IDNumber,
		FullName:   "Jane Doe",
		TotalPrice: "20.00",
		Products:   []services.OrderLine{},
	}}}

	productHandler := NewProductHandler(s.catalog, s.ingester, s.uploader, s.purger, 64)
	authHandler := NewAuthHandler(s.accounts, s.tokens)
	orderHandler := NewOrderHandler(s.orders)
	userHandler := NewUserHandler(s.accounts)
	adminHandler := NewAdminHandler(fakeStats{}, s.catalog)

	r := gin.New()
	r.Use(middleware.I18nMiddleware())
	r.GET("/get_all/", productHandler.GetAll)
	r.POST("/insert_product/", productHandler.InsertProducts)
	r.GET("/delete_all/", productHandler.DeleteAll)
	r.GET("/products/:brand_name/:product_id/", productHandler.GetBrandProduct)
	r.POST("/upload_img/", productHandler.UploadImage)
	r.GET("/get_user_details/", authHandler.GetUserDetails)
	r.GET("/all_orders/", orderHandler.GetAllOrders)
	r.GET("/get_order/:order_id/", orderHandler.GetOrder)
	r.GET("/me", middleware.AuthRequired(s.tokens), userHandler.GetProfile)

	admin := r.Group("/admin")
	admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)
	admin.POST("/brands", adminHandler.CreateBrand)
	admin.DELETE("/brands/:id", adminHandler.DeleteBrand)
	admin.GET("/categories/:id", adminHandler.GetCategory)
	admin.PUT("/categories/:id", adminHandler.UpdateCategory)
	admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.GET("/products/:id/images", productHandler.ListImages)
	admin.DELETE("/images/:id", productHandler.DeleteImage)
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.CreateUser)
	admin.PUT("/users/:id_number", userHandler.UpdateUser)
	admin.DELETE("/users/:id_number", userHandler.DeleteUser)
	admin.POST("/orders", orderHandler.CreateOrder)
	admin.DELETE("/orders/:order_id", orderHandler.DeleteOrder)
	s.router = r
}

func (s *HandlerTestSuite) do(method, path string, body io.Reader, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *HandlerTestSuite) jsonBody(v interface{}) io.Reader {
	data, err := json.Marshal(v)
	s.Require().NoError(err)
	return bytes.NewReader(data)
}

func (s *HandlerTestSuite) TestGetAll() {
	w, env := s.do("GET", "/get_all/", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(utils.StatusSuccess, env.Status)

	var views []services.ProductView
	s.Require().NoError(json.Unmarshal(env.Data, &views))
	s.Require().Len(views, 1)
	s.Equal("acme", views[0].Brand)
	s.Equal("15.00", views[0].Price)
	s.Nil(views[0].Category)
	s.Len(views[0].Images, 1)
	s.Equal("acme/"+s.product.ID.String(), views[0].AbsoluteURL)
}

func (s *HandlerTestSuite) TestGetAllHidesUnexpectedErrors() {
	s.catalog.err = errors.New("pq: connection reset by peer")

	w, env := s.do("GET", "/get_all/", nil, nil)
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal(utils.StatusError, env.Status)
	s.Equal("INTERNAL_ERROR", env.Code)
	s.Equal("Internal server error", env.Message)
	s.NotContains(w.Body.String(), "connection reset")
}

func (s *HandlerTestSuite) TestGetBrandProduct() {
	w, env := s.do("GET", "/products/acme/"+s.product.ID.String()+"/", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	var view services.ProductView
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.Equal("Widget", view.Name)

	w, env = s.do("GET", "/products/other/"+s.product.ID.String()+"/", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(services.CodeProductNotFound, env.Code)
	s.Equal("Product not found", env.Message)

	w, env = s.do("GET", "/products/other/"+s.product.ID.String()+"/", nil, map[string]string{"Accept-Language": "id-ID"})
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Produk tidak ditemukan", env.Message)

	w, env = s.do("GET", "/products/acme/not-a-uuid/", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid product id", env.Message)
}

func (s *HandlerTestSuite) TestInsertProducts() {
	w, env := s.do("POST", "/insert_product/", s.jsonBody(map[string]interface{}{
		"products": []map[string]interface{}{
			{"name": "Widget", "brand": "acme", "category": "tools", "price": "15.00", "quantity": 3},
			{"name": "Gadget", "brand": "acme", "price": 5, "quantity": 1},
		},
	}), nil)
	s.Equal(http.StatusCreated, w.Code)
	s.Equal("Products inserted successfully", env.Message)

	var result services.IngestResult
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Equal(2, result.TotalInserted)
	s.Require().NotNil(s.ingester.got)
	s.True(s.ingester.got.Products[1].Price.Equal(decimal.NewFromInt(5)))
}

func (s *HandlerTestSuite) TestInsertProductsBareArray() {
	w, env := s.do("POST", "/insert_product/", s.jsonBody([]map[string]interface{}{
		{"name": "Widget", "brand": "acme", "price": "15.00", "quantity": 3},
	}), nil)
	s.Equal(http.StatusCreated, w.Code)
	s.Contains(string(env.Data), `"total_inserted":1`)
	s.Require().NotNil(s.ingester.got)
	s.Equal("Widget", s.ingester.got.Products[0].Name)
}

func (s *HandlerTestSuite) TestInsertProductsRejectsMalformedBody() {
	w, env := s.do("POST", "/insert_product/", bytes.NewBufferString(`{"products": [`), nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("BAD_REQUEST", env.Code)
	s.Nil(s.ingester.got)
}

func (s *HandlerTestSuite) TestInsertProductsDuplicate() {
	s.ingester.err = &services.Error{
		Kind:    services.ErrConflict,
		Code:    services.CodeDuplicateProduct,
		Message: "duplicate product in payload",
		Details: &services.DuplicateProducts{
			Attempted:  2,
			Duplicates: []services.DuplicateDetail{{Index: 1, Brand: "acme", Name: "Widget"}},
		},
	}

	w, env := s.do("POST", "/insert_product/", s.jsonBody(map[string]interface{}{
		"products": []map[string]interface{}{{"name": "Widget", "brand": "acme", "price": 1, "quantity": 1}},
	}), nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(services.CodeDuplicateProduct, env.Code)

	var details services.DuplicateProducts
	s.Require().NoError(json.Unmarshal(env.Details, &details))
	s.Equal(2, details.Attempted)
	s.Equal([]services.DuplicateDetail{{Index: 1, Brand: "acme", Name: "Widget"}}, details.Duplicates)
}

func (s *HandlerTestSuite) TestInsertProductsAlreadyStored() {
	s.ingester.err = &services.Error{
		Kind:    services.ErrConflict,
		Code:    services.CodeDuplicateProduct,
		Message: "one or more products already exist for their brand",
		Details: &services.DuplicateProducts{Attempted: 1},
	}

	w, env := s.do("POST", "/insert_product/", s.jsonBody([]map[string]interface{}{
		{"name": "Widget", "brand": "acme", "price": 1, "quantity": 1},
	}), nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(services.CodeDuplicateProduct, env.Code)
	s.JSONEq(`{"attempted": 1}`, string(env.Details))
}

func (s *HandlerTestSuite) upload(fields map[string]string, file []byte) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("image", "photo.jpg")
		s.Require().NoError(err)
		_, err = part.Write(file)
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest("POST", "/upload_img/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (s *HandlerTestSuite) TestUploadImage() {
	w, env := s.upload(map[string]string{"product": "Widget", "brand": "acme"}, []byte("image-bytes"))
	s.Equal(http.StatusCreated, w.Code)
	s.Equal("Image uploaded successfully", env.Message)
	s.Equal("Widget", s.uploader.product)
	s.Equal("acme", s.uploader.brand)
	s.Equal([]byte("image-bytes"), s.uploader.data)
	s.Contains(string(env.Data), "https://cdn.example.com/acme/x.png")
}

func (s *HandlerTestSuite) TestUploadImageRequiresFile() {
	w, env := s.upload(map[string]string{"product": "Widget"}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("An image file is required", env.Message)
	s.Empty(s.uploader.product)
}

func (s *HandlerTestSuite) TestUploadImageValidation() {
	w, env := s.upload(map[string]string{"product": "  "}, []byte("image-bytes"))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("product is required", env.Message)

	w, env = s.upload(map[string]string{"product": "Widget"}, bytes.Repeat([]byte("x"), 65))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(services.CodeImageTooLarge, env.Code)
	s.Equal("Image exceeds the maximum upload size of 64 bytes", env.Message)
	s.Empty(s.uploader.product)
}

func (s *HandlerTestSuite) TestUploadImageStorageFailure() {
	s.uploader.err = &services.Error{Kind: services.ErrUpstream, Code: services.CodeUploadFailed, Message: "failed to store image"}

	w, env := s.upload(map[string]string{"product": "Widget"}, []byte("image-bytes"))
	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal(services.CodeUploadFailed, env.Code)
	s.Equal("Failed to upload image", env.Message)
}

func (s *HandlerTestSuite) TestDeleteAll() {
	w, env := s.do("GET", "/delete_all/", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(1, s.purger.calls)
	s.Equal("All products and orders have been deleted", env.Message)

	var result services.PurgeResult
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Equal(3, result.ObjectsDeleted)
	s.Equal(models.CatalogTables, result.TablesPurged)
}

func (s *HandlerTestSuite) TestGetUserDetails() {
	w, env := s.do("GET", "/get_user_details/?username=jane&password=correct-horse", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var data struct {
		User        services.UserView `json:"user"`
		AccessToken string            `json:"access_token"`
		TokenType   string            `json:"token_type"`
		ExpiresIn   int64             `json:"expires_in"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.Equal("Jane Doe", data.User.FullName)
	s.Equal("1990-05-17", data.User.DateOfBirth)
	s.Require().NotNil(data.User.Address)
	s.Equal("Bandung", data.User.Address.City)
	s.Equal("Bearer", data.TokenType)
	s.Equal(int64(3600), data.ExpiresIn)
	s.NotContains(string(env.Data), "password")

	claims, err := s.tokens.Validate(data.AccessToken)
	s.Require().NoError(err)
	s.Equal(s.user.IDNumber, claims.IDNumber)
	s.Equal("jane", claims.Username)
}

func (s *HandlerTestSuite) TestGetUserDetailsFailures() {
	w, env := s.do("GET", "/get_user_details/?username=nobody&password=x", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(services.CodeUserNotFound, env.Code)
	s.Equal("incorrect username", env.Message)

	w, env = s.do("GET", "/get_user_details/?username=jane&password=wrong", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(services.CodeInvalidPassword, env.Code)
	s.Equal("Incorrect password", env.Message)
}

func (s *HandlerTestSuite) TestProfile() {
	w, _ := s.do("GET", "/me", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	token, err := s.tokens.Generate(s.user.IDNumber, s.user.Username)
	s.Require().NoError(err)
	w, env := s.do("GET", "/me", nil, map[string]string{"Authorization": "Bearer " + token})
	s.Equal(http.StatusOK, w.Code)

	var view services.UserView
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.Equal("jane", view.Username)
}

func (s *HandlerTestSuite) TestOrders() {
	w, env := s.do("GET", "/all_orders/", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	var summaries []services.OrderSummary
	s.Require().NoError(json.Unmarshal(env.Data, &summaries))
	s.Require().Len(summaries, 1)
	s.Equal("20.00", summaries[0].TotalPrice)

	w, _ = s.do("GET", "/get_order/"+summaries[0].OrderID.String()+"/", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	w, env = s.do("GET", "/get_order/"+uuid.NewString()+"/", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(services.CodeOrderNotFound, env.Code)

	w, _ = s.do("GET", "/get_order/42/", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestOrdersDeadline() {
	s.orders.err = context.DeadlineExceeded

	w, _ := s.do("GET", "/all_orders/", nil, nil)
	s.Equal(http.StatusGatewayTimeout, w.Code)
}

func (s *HandlerTestSuite) TestCreateOrderInvalidDiscount() {
	w, env := s.do("POST", "/admin/orders", s.jsonBody(map[string]interface{}{
		"user_id": s.user.IDNumber,
		"items":   []map[string]interface{}{{"product_id": s.product.ID, "product_quantity": 1, "is_discount": true, "discount": "1.5"}},
	}), nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(services.CodeInvalidDiscount, env.Code)
	s.Equal("Discount must be between 0 and 1", env.Message)
}

func (s *HandlerTestSuite) TestAdminCatalog() {
	w, env := s.do("GET", "/admin/dashboard/stats", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), `"total_revenue":"20.00"`)

	w, env = s.do("POST", "/admin/brands", s.jsonBody(map[string]string{"name": "globex"}), nil)
	s.Equal(http.StatusCreated, w.Code)
	s.Equal("Brand created successfully", env.Message)
	s.Len(s.catalog.brands, 1)

	w, env = s.do("DELETE", "/admin/brands/"+uuid.NewString(), nil, nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(services.CodeBrandInUse, env.Code)

	w, env = s.do("PUT", "/admin/categories/1", s.jsonBody(map[string]string{"name": "hardware"}), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), "hardware")

	w, _ = s.do("GET", "/admin/categories/abc", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do("DELETE", "/admin/categories/1", nil, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w, env = s.do("DELETE", "/admin/categories/9", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Category not found", env.Message)
}

func (s *HandlerTestSuite) TestAdminProducts() {
	path := "/admin/products/" + s.product.ID.String()

	w, env := s.do("PUT", path, s.jsonBody(map[string]int{"quantity": 9}), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), `"quantity":9`)

	w, env = s.do("GET", path+"/images", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), "w.png")

	w, _ = s.do("DELETE", "/admin/images/"+uuid.NewString(), nil, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do("DELETE", path, nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal([]uuid.UUID{s.product.ID}, s.catalog.deleted)
}

func (s *HandlerTestSuite) TestAdminUsers() {
	w, env := s.do("GET", "/admin/users", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotContains(string(env.Data), "password")

	w, env = s.do("POST", "/admin/users", s.jsonBody(map[string]string{"username": "jane"}), nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(services.CodeAlreadyExists, env.Code)

	w, env = s.do("PUT", "/admin/users/"+s.user.IDNumber, s.jsonBody(map[string]string{"first_name": "Janet"}), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), `"full_name":"Janet Doe"`)

	w, _ = s.do("DELETE", "/admin/users/"+s.user.IDNumber, nil, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w, _ = s.do("DELETE", "/admin/users/"+s.user.IDNumber, nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
