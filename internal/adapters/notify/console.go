package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/swapdesk/internal/domain"
	"github.com/alejandrodnm/swapdesk/internal/numeric"
)

// Console implementa ports.Notifier escribiendo tablas a un writer.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// ShowPrograms imprime los reward programs disponibles.
func (c *Console) ShowPrograms(_ context.Context, programs []domain.RewardProgram) error {
	if len(programs) == 0 {
		fmt.Fprintln(c.out, "No reward programs found.")
		return nil
	}

	now := time.Now()
	active := 0
	for _, p := range programs {
		if p.IsActive(now) {
			active++
		}
	}
	fmt.Fprintf(c.out, "\n%d reward programs — %d active\n", len(programs), active)

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Pool", "Rewards token", "Rate (wei/s)", "Status", "Progress", "Remaining")

	for _, p := range programs {
		status := "inactive"
		if p.IsActive(now) {
			status = "active"
		}

		progress := "-"
		remaining := "-"
		if level, err := numeric.ProgressLevel(p.StartTime, p.EndTime); err == nil {
			progress = fmt.Sprintf("%.0f%%", level*100)
			if left := p.EndTime - now.Unix(); left > 0 {
				remaining = numeric.FormatDuration(time.Duration(left) * time.Second)
			}
		}

		table.Append(
			p.ID,
			shortAddr(p.Pool),
			shortAddr(p.RewardsToken),
			p.RewardRate,
			status,
			progress,
			remaining,
		)
	}
	table.Render()
	return nil
}

// ShowStakes imprime las posiciones de staking del usuario.
func (c *Console) ShowStakes(_ context.Context, stakes []domain.ProviderStake) error {
	if len(stakes) == 0 {
		fmt.Fprintln(c.out, "No staked positions found.")
		return nil
	}

	fmt.Fprintf(c.out, "\n%d staked positions\n", len(stakes))

	table := tablewriter.NewWriter(c.out)
	table.Header("Program", "Pool", "Pool tokens", "Underlying", "Pending rewards", "APR")

	for _, s := range stakes {
		table.Append(
			s.ID,
			shortAddr(s.Pool),
			prettyWei(s.PoolTokenAmountWei),
			prettyWei(s.TokenAmountWei),
			prettyWei(s.PendingRewardsWei),
			aprLabel(s),
		)
	}
	table.Render()
	return nil
}

// ShowOrders imprime las órdenes limit del usuario.
func (c *Console) ShowOrders(_ context.Context, orders []domain.LimitOrder) error {
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "No limit orders found.")
		return nil
	}

	fmt.Fprintf(c.out, "\n%d limit orders\n", len(orders))

	table := tablewriter.NewWriter(c.out)
	table.Header("Hash", "Pay", "Get", "Rate", "Filled", "Status", "Expires")

	for _, o := range orders {
		table.Append(
			shortHash(o.Hash),
			fmt.Sprintf("%s %s", o.PayAmount, o.PayToken.Symbol),
			fmt.Sprintf("%s %s", o.GetAmount, o.GetToken.Symbol),
			o.Rate,
			o.Filled,
			string(o.Status),
			expiresLabel(o.Expiration),
		)
	}
	table.Render()
	return nil
}

// Notify imprime el resultado de una operación en una línea.
func (c *Console) Notify(_ context.Context, n domain.Notification) error {
	mark := "OK"
	if n.Type == domain.NotificationError {
		mark = "!!"
	}
	fmt.Fprintf(c.out, "[%s] %s: %s", mark, n.Title, n.Message)
	if n.TxHash != "" {
		fmt.Fprintf(c.out, " (tx %s)", shortHash(n.TxHash))
	}
	fmt.Fprintln(c.out)
	return nil
}

// --- helpers ---

func prettyWei(wei decimal.Decimal) string {
	return numeric.Prettify(numeric.FromBaseUnits(wei, 18), numeric.Options{Abbreviate: true})
}

func aprLabel(s domain.ProviderStake) string {
	rate, err := decimal.NewFromString(s.RewardRate)
	if err != nil || s.TokenAmountWei.IsZero() {
		return "-"
	}
	apr := numeric.StakeAPR(rate, s.TokenAmountWei)
	return fmt.Sprintf("%s%%", apr.Mul(decimal.NewFromInt(100)).Round(2).String())
}

func expiresLabel(unix int64) string {
	left := unix - time.Now().Unix()
	if left <= 0 {
		return "expired"
	}
	return numeric.FormatDuration(time.Duration(left) * time.Second)
}

func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}

func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:10] + "…"
}
