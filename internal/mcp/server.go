package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/identity"
)

const serverInstructions = `Crowdvault is an escrow-based crowdfunding ledger.
Creators register projects with a funding goal and a fixed deadline. Backers
lock funds into a per-project vault. After the deadline the creator finalizes
the project: if the goal was met the vault pays out to the creator, otherwise
each backer claims their pledge back individually.

All state-changing tools take a signer public key and an ed25519 signature
over the operation's canonical message. Use the airdrop tool to fund wallets
on a development deployment.`

// LedgerService defines the engine operations needed by MCP.
type LedgerService interface {
	InitializeCounter(ctx context.Context, payer identity.PublicKey) (*funding.Counter, error)
	InitializeProject(ctx context.Context, creator identity.PublicKey, title, description string, fundingGoal uint64) (*funding.Project, error)
	Contribute(ctx context.Context, contributor identity.PublicKey, project addr.Address, amount uint64, timestamp int64) (*funding.Contribution, error)
	FinalizeProject(ctx context.Context, caller identity.PublicKey, project addr.Address) (*funding.Project, error)
	ClaimRefund(ctx context.Context, caller identity.PublicKey, project, contribution addr.Address) (*funding.Contribution, error)
	Airdrop(ctx context.Context, wallet identity.PublicKey, amount uint64) (uint64, error)

	Counter(ctx context.Context) (*funding.Counter, error)
	Project(ctx context.Context, project addr.Address) (*funding.Project, error)
	Projects(ctx context.Context) ([]funding.Project, error)
	Vault(ctx context.Context, project addr.Address) (*funding.Vault, error)
	Contributions(ctx context.Context, project addr.Address) ([]funding.Contribution, error)
	Balance(ctx context.Context, address addr.Address) (uint64, error)
}

// Config contains server configuration.
type Config struct {
	Service       LedgerService
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "crowdvault",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Service)

	return server
}
