package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"nexus-swap/pkg/types"
)

const (
	slippageBps   = 100 // 1%
	quoteDeadline = 24 * time.Hour
)

// OneClickClient wraps the 1Click SDK
type OneClickClient struct {
	client *oneclick.APIClient
	token  string
}

// NewOneClickClient creates a new 1Click API client. baseURL overrides the
// SDK's default server when set.
func NewOneClickClient(jwtToken, baseURL string) *OneClickClient {
	config := oneclick.NewConfiguration()
	if baseURL != "" {
		config.Servers = oneclick.ServerConfigurations{{URL: strings.TrimRight(baseURL, "/")}}
	}

	return &OneClickClient{
		client: oneclick.NewAPIClient(config),
		token:  jwtToken,
	}
}

func (c *OneClickClient) auth(ctx context.Context) context.Context {
	if c.token == "" {
		return ctx
	}
	return context.WithValue(ctx, oneclick.ContextAccessToken, c.token)
}

// Tokens retrieves all supported tokens
func (c *OneClickClient) Tokens(ctx context.Context) ([]types.TokenInfo, error) {
	resp, err := c.tokens(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.TokenInfo, 0, len(resp))
	for _, token := range resp {
		out = append(out, tokenInfo(token))
	}
	return out, nil
}

func (c *OneClickClient) tokens(ctx context.Context) ([]oneclick.TokenResponse, error) {
	resp, httpResp, err := c.client.OneClickAPI.GetTokens(c.auth(ctx)).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	return resp, nil
}

// FindToken searches for a token by symbol, on chain when chain is set
func (c *OneClickClient) FindToken(ctx context.Context, symbol, chain string) (types.TokenInfo, error) {
	tokens, err := c.tokens(ctx)
	if err != nil {
		return types.TokenInfo{}, err
	}

	token, err := findToken(tokens, symbol, chain)
	if err != nil {
		return types.TokenInfo{}, err
	}
	return tokenInfo(*token), nil
}

func findToken(tokens []oneclick.TokenResponse, symbol, chain string) (*oneclick.TokenResponse, error) {
	symbol = strings.ToUpper(symbol)
	chain = strings.ToLower(chain)

	if chain != "" {
		for i := range tokens {
			if strings.ToUpper(tokens[i].GetSymbol()) == symbol &&
				strings.ToLower(tokens[i].GetBlockchain()) == chain {
				return &tokens[i], nil
			}
		}
		return nil, fmt.Errorf("token '%s' not found on chain '%s'", symbol, chain)
	}

	// Try exact match first
	for i := range tokens {
		if strings.ToUpper(tokens[i].GetSymbol()) == symbol {
			return &tokens[i], nil
		}
	}

	// Try partial match
	for i := range tokens {
		if strings.Contains(strings.ToUpper(tokens[i].GetSymbol()), symbol) {
			return &tokens[i], nil
		}
	}

	return nil, fmt.Errorf("token '%s' not found", symbol)
}

func tokenInfo(token oneclick.TokenResponse) types.TokenInfo {
	return types.TokenInfo{
		Symbol:          token.GetSymbol(),
		Chain:           token.GetBlockchain(),
		AssetID:         token.GetAssetId(),
		ContractAddress: token.GetContractAddress(),
		Decimals:        int(token.GetDecimals()),
	}
}

// Quote generates a bridge quote with a deposit address
func (c *OneClickClient) Quote(ctx context.Context, req *types.BridgeRequest) (*types.Quote, error) {
	if req.Recipient == "" {
		return nil, fmt.Errorf("recipient address is required. Use --recipient flag to specify where you want to receive the tokens")
	}

	tokens, err := c.tokens(ctx)
	if err != nil {
		return nil, err
	}

	sourceToken, err := findToken(tokens, req.SourceToken, req.SourceChain)
	if err != nil {
		return nil, fmt.Errorf("source token error: %w", err)
	}

	destSymbol := req.DestToken
	if destSymbol == "" {
		destSymbol = req.SourceToken
	}
	destToken, err := findToken(tokens, destSymbol, req.DestChain)
	if err != nil {
		return nil, fmt.Errorf("destination token error: %w", err)
	}

	source := tokenInfo(*sourceToken)
	amountIn, err := types.ToBaseUnits(req.Amount, source.Decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	refundTo := req.RefundTo
	if refundTo == "" {
		refundTo = req.Recipient
	}

	deadline := time.Now().Add(quoteDeadline)

	quoteReq := oneclick.NewQuoteRequest(
		req.Dry,
		"EXACT_INPUT",
		slippageBps,
		source.AssetID,
		"ORIGIN_CHAIN",
		destToken.GetAssetId(),
		amountIn.String(),
		refundTo,
		"ORIGIN_CHAIN",
		req.Recipient,
		"DESTINATION_CHAIN",
		deadline,
	)

	resp, httpResp, err := c.client.OneClickAPI.GetQuote(c.auth(ctx)).QuoteRequest(*quoteReq).Execute()
	if err != nil {
		return nil, apiError(httpResp, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	if resp == nil {
		return nil, fmt.Errorf("empty quote response")
	}

	details := resp.GetQuote()
	return &types.Quote{
		Source:             source,
		Dest:               tokenInfo(*destToken),
		DepositAddress:     details.GetDepositAddress(),
		DepositMemo:        details.GetDepositMemo(),
		AmountIn:           amountIn,
		AmountInFormatted:  details.GetAmountInFormatted(),
		AmountOutFormatted: details.GetAmountOutFormatted(),
		AmountInUSD:        details.GetAmountInUsd(),
		AmountOutUSD:       details.GetAmountOutUsd(),
		TimeEstimate:       time.Duration(float64(details.GetTimeEstimate()) * float64(time.Second)),
		Deadline:           deadline,
	}, nil
}

// apiError extracts the message from an error response body
func apiError(httpResp *http.Response, err error) error {
	if httpResp == nil {
		return fmt.Errorf("failed to get quote from API: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, readErr := io.ReadAll(httpResp.Body)
	if readErr != nil || len(bodyBytes) == 0 {
		return fmt.Errorf("failed to get quote from API (status: %d): %w", httpResp.StatusCode, err)
	}

	var errorResp map[string]interface{}
	if jsonErr := json.Unmarshal(bodyBytes, &errorResp); jsonErr == nil {
		if message, ok := errorResp["message"].(string); ok {
			return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, message)
		}
		if errs, ok := errorResp["errors"]; ok {
			return fmt.Errorf("API error (status %d): %v", httpResp.StatusCode, errs)
		}
	}
	return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(bodyBytes))
}

// Status checks the execution status of a bridge by deposit address
func (c *OneClickClient) Status(ctx context.Context, depositAddress string) (*oneclick.GetExecutionStatusResponse, error) {
	resp, httpResp, err := c.client.OneClickAPI.GetExecutionStatus(c.auth(ctx)).DepositAddress(depositAddress).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	return resp, nil
}

// SubmitDeposit submits the deposit transaction hash
func (c *OneClickClient) SubmitDeposit(ctx context.Context, depositAddress, txHash string) error {
	req := oneclick.NewSubmitDepositTxRequest(depositAddress, txHash)

	_, httpResp, err := c.client.OneClickAPI.SubmitDepositTx(c.auth(ctx)).SubmitDepositTxRequest(*req).Execute()
	if err != nil {
		return fmt.Errorf("failed to submit deposit: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		return fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	return nil
}

// FeeUSD is the USD value lost between input and output, or "" when the
// quote carries no USD prices.
func FeeUSD(q *types.Quote) string {
	in, ok := new(big.Float).SetString(q.AmountInUSD)
	if !ok {
		return ""
	}
	out, ok := new(big.Float).SetString(q.AmountOutUSD)
	if !ok {
		return ""
	}
	return new(big.Float).Sub(in, out).Text('f', 2)
}
