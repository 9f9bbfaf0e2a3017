package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nexus-swap/pkg/contracts"
)

// ResponseError is the body of every error response.
type ResponseError struct {
	Message string `json:"message"`
}

// Contract is the JSON form of a registry entry.
type Contract struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Decimals   uint8    `json:"decimals,omitempty"`
	Signatures []string `json:"signatures"`
}

// WalletView is the JSON form of the wallet status.
type WalletView struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
	ChainID   string `json:"chain_id,omitempty"`
	Connector string `json:"connector,omitempty"`
}

type handler struct {
	wallet   WalletStatus
	balances BalancesFunc
	logger   *zap.Logger
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func contractView(d contracts.Descriptor) Contract {
	return Contract{
		Name:       string(d.Name),
		Address:    d.Address.Hex(),
		Decimals:   d.Decimals,
		Signatures: d.Signatures(),
	}
}

func (h *handler) listContracts(c echo.Context) error {
	names := contracts.Names()
	out := make([]Contract, 0, len(names))
	for _, name := range names {
		d, err := contracts.Lookup(string(name))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
		out = append(out, contractView(d))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *handler) getContract(c echo.Context) error {
	d, err := contracts.Lookup(c.Param("name"))
	if errors.Is(err, contracts.ErrUnknownContract) {
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, contractView(d))
}

func (h *handler) view() WalletView {
	status := h.wallet.Status()
	if !status.Connected {
		return WalletView{}
	}

	v := WalletView{Connected: true, Address: status.Address.Hex()}
	if status.ChainID != nil {
		v.ChainID = status.ChainID.String()
	}
	if status.Connector != nil {
		v.Connector = status.Connector.ID()
	}
	return v
}

func (h *handler) walletStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

func (h *handler) account(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

func (h *handler) getBalances(c echo.Context) error {
	if h.balances == nil {
		return c.JSON(http.StatusNotImplemented, ResponseError{Message: "balances not available"})
	}

	out, err := h.balances(c.Request().Context(), h.wallet.Status())
	if err != nil {
		h.logger.Warn("failed to load balances", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
