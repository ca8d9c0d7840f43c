package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ETFSwitch/internal/httpclient"
	"ETFSwitch/internal/model"

	"github.com/shopspring/decimal"
)

const DefaultKISBaseURL = "https://openapi.koreainvestment.com:9443"

// Transaction ids of the KIS open API endpoints used here.
const (
	trAccountBalance = "CTRP6548R"
	trHoldings       = "TTTC8434R"
	trSellCash       = "TTTC0801U"
	trBuyCash        = "TTTC0802U"
)

// KISConfig holds the account and app credentials for the KIS open API.
type KISConfig struct {
	BaseURL     string
	Account     string // CANO, the first eight digits of the account number
	ProductCode string // ACNT_PRDT_CD, usually "01"
	AppKey      string
	AppSecret   string
	// BalanceRows selects the rows of the account-balance report whose
	// valuation is counted as investable capital.
	BalanceRows []int
}

// KIS is a client for the Korea Investment & Securities REST API.
type KIS struct {
	cfg         KISConfig
	accessToken string
	Client      *http.Client
}

// NewKIS creates a client with optional proxy support.
func NewKIS(cfg KISConfig, proxyURL string) *KIS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultKISBaseURL
	}
	if cfg.ProductCode == "" {
		cfg.ProductCode = "01"
	}
	return &KIS{
		cfg:    cfg,
		Client: httpclient.New(proxyURL, 0),
	}
}

// Authorize sets the bearer token sent with every request.
func (k *KIS) Authorize(accessToken string) {
	k.accessToken = accessToken
}

// Account returns the account number the client trades in.
func (k *KIS) Account() string { return k.cfg.Account }

// kisEnvelope is the common shape of every KIS response.
type kisEnvelope struct {
	ReturnCode  string          `json:"rt_cd"`
	MessageCode string          `json:"msg_cd"`
	Message     string          `json:"msg1"`
	Output1     json.RawMessage `json:"output1"`
}

func (e *kisEnvelope) ok() bool { return strings.TrimSpace(e.ReturnCode) == "0" }

func (k *KIS) doRequest(ctx context.Context, method, path, trID string, query url.Values, body interface{}) (*kisEnvelope, error) {
	endpoint := k.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", "Bearer "+k.accessToken)
	req.Header.Set("appkey", k.cfg.AppKey)
	req.Header.Set("appsecret", k.cfg.AppSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", "P")

	resp, err := k.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kis %s: %w", trID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kis %s read body: %w", trID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis %s: status %d, body: %s", trID, resp.StatusCode, string(raw))
	}
	var env kisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("kis %s decode: %w", trID, err)
	}
	return &env, nil
}

// AvailableCapital sums the valuation of the configured balance rows.
func (k *KIS) AvailableCapital(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("CANO", k.cfg.Account)
	q.Set("ACNT_PRDT_CD", k.cfg.ProductCode)
	q.Set("INQR_DVSN_1", "")
	q.Set("BSPR_BF_DT_APLY_YN", "")

	env, err := k.doRequest(ctx, http.MethodGet, "/uapi/domestic-stock/v1/trading/inquire-account-balance", trAccountBalance, q, nil)
	if err != nil {
		return 0, err
	}
	if !env.ok() {
		return 0, fmt.Errorf("kis account balance: %s", env.Message)
	}

	var rows []struct {
		PurchaseAmount  string `json:"pchs_amt"`
		ValuationAmount string `json:"evlu_amt"`
	}
	if err := json.Unmarshal(env.Output1, &rows); err != nil {
		return 0, fmt.Errorf("kis account balance decode: %w", err)
	}

	total := decimal.Zero
	for _, i := range k.cfg.BalanceRows {
		if i < 0 || i >= len(rows) {
			return 0, fmt.Errorf("kis account balance: row %d out of range (%d rows)", i, len(rows))
		}
		v, err := decimal.NewFromString(strings.TrimSpace(rows[i].ValuationAmount))
		if err != nil {
			return 0, fmt.Errorf("kis account balance row %d: %w", i, err)
		}
		total = total.Add(v)
	}
	return total.Floor().InexactFloat64(), nil
}

// Holdings returns every position with a positive quantity.
func (k *KIS) Holdings(ctx context.Context) ([]model.Holding, error) {
	q := url.Values{}
	q.Set("CANO", k.cfg.Account)
	q.Set("ACNT_PRDT_CD", k.cfg.ProductCode)
	q.Set("AFHR_FLPR_YN", "N")
	q.Set("OFL_YN", "")
	q.Set("INQR_DVSN", "02")
	q.Set("UNPR_DVSN", "01")
	q.Set("FUND_STTL_ICLD_YN", "N")
	q.Set("FNCG_AMT_AUTO_RDPT_YN", "N")
	q.Set("PRCS_DVSN", "00")
	q.Set("CTX_AREA_FK100", "")
	q.Set("CTX_AREA_NK100", "")

	env, err := k.doRequest(ctx, http.MethodGet, "/uapi/domestic-stock/v1/trading/inquire-balance", trHoldings, q, nil)
	if err != nil {
		return nil, err
	}
	if !env.ok() {
		return nil, fmt.Errorf("kis holdings: %s", env.Message)
	}

	var rows []struct {
		Symbol   string `json:"pdno"`
		Name     string `json:"prdt_name"`
		Quantity string `json:"hldg_qty"`
	}
	if err := json.Unmarshal(env.Output1, &rows); err != nil {
		return nil, fmt.Errorf("kis holdings decode: %w", err)
	}

	holdings := make([]model.Holding, 0, len(rows))
	for _, r := range rows {
		qty, err := strconv.ParseInt(strings.TrimSpace(r.Quantity), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("kis holdings %s quantity %q: %w", r.Symbol, r.Quantity, err)
		}
		if qty <= 0 {
			continue
		}
		holdings = append(holdings, model.Holding{Symbol: r.Symbol, Name: r.Name, Quantity: qty})
	}
	return holdings, nil
}

type cashOrder struct {
	Account     string `json:"CANO"`
	ProductCode string `json:"ACNT_PRDT_CD"`
	Symbol      string `json:"PDNO"`
	OrderType   string `json:"ORD_DVSN"`
	Quantity    string `json:"ORD_QTY"`
	UnitPrice   string `json:"ORD_UNPR"`
}

// Submit places a market order for whole shares. A rejected order is reported
// through the returned status; err is set only when the request itself failed.
func (k *KIS) Submit(ctx context.Context, symbol string, shares int64, side model.Side) (model.OrderStatus, string, error) {
	trID := trBuyCash
	if side == model.SideSell {
		trID = trSellCash
	}
	payload := cashOrder{
		Account:     k.cfg.Account,
		ProductCode: k.cfg.ProductCode,
		Symbol:      symbol,
		OrderType:   "01", // market
		Quantity:    strconv.FormatInt(shares, 10),
		UnitPrice:   "0",
	}
	env, err := k.doRequest(ctx, http.MethodPost, "/uapi/domestic-stock/v1/trading/order-cash", trID, nil, payload)
	if err != nil {
		return model.OrderFailure, "", err
	}
	if !env.ok() {
		return model.OrderFailure, env.Message, nil
	}
	return model.OrderSuccess, env.Message, nil
}
