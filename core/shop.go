package core

// DefaultPaymentToken is used when an order is paid without naming a token
const DefaultPaymentToken = "CKB"

// ShopConfig is the store front configuration
type ShopConfig struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Img     string `json:"img"`
}

// ShopSettings is the raw payload of GET /store/config
type ShopSettings struct {
	ReceivePaymentList []struct {
		Address string `json:"address"`
		Token   string `json:"token"`
	} `json:"receivePaymentList"`
	Service struct {
		Name string `json:"name"`
		Img  string `json:"img"`
	} `json:"service"`
}

// Banner is a promotional banner
type Banner struct {
	Img  string `json:"img"`
	Link string `json:"link"`
}

// Category groups products
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Img  string `json:"img,omitempty"`
}

// SKU is a purchasable product
type SKU struct {
	ID       int64  `json:"id"`
	Cid      int64  `json:"cid,omitempty"`
	Name     string `json:"name"`
	Img      string `json:"img,omitempty"`
	Price    string `json:"price"`
	Currency string `json:"currency,omitempty"`
	Recharge bool   `json:"recharge,omitempty"`
}

// OrderRequest is the body of POST /store/placeOrder
type OrderRequest struct {
	ProductID      int64  `json:"productId"`
	Num            int    `json:"num"`
	RechargeNo     string `json:"rechargeNo,omitempty"`
	RechargeAmount int64  `json:"rechargeAmount,omitempty"`
}

// PrePayment is the quote returned for an order about to be paid
type PrePayment struct {
	TokenAmount string `json:"tokenAmount"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Order is a placed order
type Order struct {
	ID          int64  `json:"id"`
	OrderNo     string `json:"orderNo"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Num         int    `json:"num"`
	Status      int    `json:"status"`
	TokenAmount string `json:"tokenAmount,omitempty"`
	Token       string `json:"token,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// CardStatus filters the card list
type CardStatus int

const (
	CardUnused CardStatus = iota
	CardUsed
	CardExpired
)

// Card is a redeemable card bought in the store
type Card struct {
	ID        int64      `json:"id"`
	OrderID   int64      `json:"orderId"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Status    CardStatus `json:"status"`
	ExpiresAt int64      `json:"expiresAt,omitempty"`
}
