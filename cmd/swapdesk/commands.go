package main

// commands.go — implementación de los subcomandos del CLI.

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/swapdesk/config"
	"github.com/alejandrodnm/swapdesk/internal/adapters/notify"
	"github.com/alejandrodnm/swapdesk/internal/adapters/onchain"
	"github.com/alejandrodnm/swapdesk/internal/adapters/relay"
	"github.com/alejandrodnm/swapdesk/internal/adapters/storage"
	"github.com/alejandrodnm/swapdesk/internal/domain"
	"github.com/alejandrodnm/swapdesk/internal/numeric"
	"github.com/alejandrodnm/swapdesk/internal/orders"
	"github.com/alejandrodnm/swapdesk/internal/ports"
	"github.com/alejandrodnm/swapdesk/internal/rewards"
)

func runPrograms(ctx context.Context, cfg *config.Config) error {
	agg, err := buildAggregator(cfg)
	if err != nil {
		return err
	}

	programs, err := agg.FetchAllPrograms(ctx)
	if err != nil {
		return err
	}
	return notify.NewConsole().ShowPrograms(ctx, programs)
}

func runStakes(ctx context.Context, cfg *config.Config, provider string) error {
	agg, err := buildAggregator(cfg)
	if err != nil {
		return err
	}

	stakes, err := agg.FetchStakesByUser(ctx, provider)
	if err != nil {
		return err
	}

	// Snapshot best-effort al log de actividad
	if log, err := storage.NewSQLiteLog(cfg.Storage.DSN); err == nil {
		defer log.Close()
		if err := log.RecordStakeSnapshot(ctx, provider, stakes); err != nil {
			slog.Warn("stake snapshot failed", "err", err)
		}
	}

	return notify.NewConsole().ShowStakes(ctx, stakes)
}

func runOrders(ctx context.Context, cfg *config.Config, maker string) error {
	client := relay.NewClient(cfg.Relay.Base, tokenList(cfg))

	list, err := client.OrdersByMaker(ctx, maker)
	if err != nil {
		return err
	}
	return notify.NewConsole().ShowOrders(ctx, list)
}

func runCancel(ctx context.Context, cfg *config.Config, maker string, hashes []string) error {
	client := relay.NewClient(cfg.Relay.Base, tokenList(cfg))

	rfqOrders, err := client.RFQOrdersByMaker(ctx, maker, hashes...)
	if err != nil {
		return err
	}
	if len(rfqOrders) == 0 {
		fmt.Fprintln(os.Stdout, "No matching orders to cancel.")
		return nil
	}

	svc, log, err := buildOrderService(cfg, client)
	if err != nil {
		return err
	}
	if log != nil {
		defer log.Close()
	}

	n := svc.CancelOrders(ctx, orders.CancelRequest{Orders: rfqOrders, User: maker})
	return notify.NewConsole().Notify(ctx, n)
}

func runSwap(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("swap", flag.ExitOnError)
	paySymbol := fs.String("pay", "", "symbol of the token to pay (ETH for native)")
	getSymbol := fs.String("get", "", "symbol of the token to receive")
	payAmount := fs.String("pay-amount", "", "human amount to pay")
	getAmount := fs.String("get-amount", "", "human amount to receive")
	duration := fs.Duration("duration", 24*time.Hour, "how long the order stays live")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *paySymbol == "" || *getSymbol == "" || *payAmount == "" || *getAmount == "" {
		fs.Usage()
		return fmt.Errorf("swap: -pay, -get, -pay-amount and -get-amount are required")
	}

	payAddr, payDecimals, err := resolveToken(cfg, *paySymbol)
	if err != nil {
		return err
	}
	getAddr, getDecimals, err := resolveToken(cfg, *getSymbol)
	if err != nil {
		return err
	}

	payWei, err := toWei(*payAmount, payDecimals)
	if err != nil {
		return fmt.Errorf("swap: pay-amount: %w", err)
	}
	getWei, err := toWei(*getAmount, getDecimals)
	if err != nil {
		return fmt.Errorf("swap: get-amount: %w", err)
	}

	client := relay.NewClient(cfg.Relay.Base, tokenList(cfg))
	svc, log, err := buildOrderService(cfg, client)
	if err != nil {
		return err
	}
	if log != nil {
		defer log.Close()
	}

	svc.SwapLimit(ctx, orders.SwapLimitRequest{
		SourceToken:     payAddr,
		TargetToken:     getAddr,
		SourceAmountWei: payWei.BigInt(),
		TargetAmountWei: getWei.BigInt(),
		Duration:        *duration,
	})
	return nil
}

func runActivity(ctx context.Context, cfg *config.Config) error {
	log, err := storage.NewSQLiteLog(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer log.Close()

	events, err := log.RecentOrderEvents(ctx, 50)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "No activity recorded yet.")
		return nil
	}
	for _, ev := range events {
		ref := ev.TxHash
		if ref == "" {
			ref = ev.OrderHash
		}
		fmt.Fprintf(os.Stdout, "%s  %-9s  %s  %s\n",
			ev.CreatedAt.Format(time.DateTime), ev.Kind, ref, ev.Detail)
	}
	return nil
}

// --- wiring helpers ---

func buildAggregator(cfg *config.Config) (*rewards.Aggregator, error) {
	eth, err := ethclient.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %q: %w", cfg.Chain.RPCURL, err)
	}

	batch := onchain.NewMulticall(eth, common.HexToAddress(cfg.Chain.Contracts.Multicall))
	staking := onchain.NewStakingClient(eth, batch,
		common.HexToAddress(cfg.Chain.Contracts.Rewards),
		common.HexToAddress(cfg.Chain.Contracts.Info),
	)
	return rewards.NewAggregator(staking), nil
}

func buildOrderService(cfg *config.Config, client *relay.Client) (*orders.Service, *storage.SQLiteLog, error) {
	if cfg.Wallet.PrivateKey == "" {
		return nil, nil, fmt.Errorf("WALLET_PRIVATE_KEY is required for signing operations")
	}

	settler, err := onchain.NewSettlementClient(
		cfg.Chain.RPCURL,
		cfg.Wallet.PrivateKey,
		cfg.Chain.ChainID,
		common.HexToAddress(cfg.Chain.Contracts.Exchange),
		common.HexToAddress(cfg.Chain.Contracts.WETH),
	)
	if err != nil {
		return nil, nil, err
	}

	signer, err := orders.NewSigner(cfg.Wallet.PrivateKey)
	if err != nil {
		return nil, nil, err
	}

	// El log de actividad es opcional: sin él, el service sigue operando
	log, err := storage.NewSQLiteLog(cfg.Storage.DSN)
	if err != nil {
		slog.Warn("activity log unavailable", "err", err, "dsn", cfg.Storage.DSN)
		log = nil
	}
	var activity ports.ActivityLog
	if log != nil {
		activity = log
	}

	svc := orders.NewService(client, settler, signer, activity,
		cfg.Chain.ChainID,
		common.HexToAddress(cfg.Chain.Contracts.Exchange),
		common.HexToAddress(cfg.Chain.Contracts.WETH),
	)
	return svc, log, nil
}

func tokenList(cfg *config.Config) *domain.TokenList {
	tokens := make([]domain.Token, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		tokens = append(tokens, domain.Token{
			Address:  t.Address,
			Symbol:   t.Symbol,
			Decimals: t.Decimals,
		})
	}
	return domain.NewTokenList(tokens)
}

// resolveToken busca un token por símbolo en la config. "ETH" resuelve al
// sentinel del native asset.
func resolveToken(cfg *config.Config, symbol string) (common.Address, int, error) {
	if symbol == "ETH" {
		return orders.NativeToken, 18, nil
	}
	for _, t := range cfg.Tokens {
		if t.Symbol == symbol {
			return common.HexToAddress(t.Address), t.Decimals, nil
		}
	}
	return common.Address{}, 0, fmt.Errorf("unknown token symbol %q", symbol)
}

func toWei(human string, decimals int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(human)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("amount must be positive")
	}
	return numeric.ToBaseUnits(d, decimals), nil
}
