package mcp

import (
	"context"
	"encoding/hex"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/identity"
)

// registerTools wires every ledger tool into the server. State-changing tools
// verify the caller's signature before touching the engine; read tools are
// open.
func registerTools(server *sdkmcp.Server, svc LedgerService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "initialize_counter",
		Description: "Create the global project counter. Must run once before any project can be created.",
	}, initializeCounterHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "initialize_project",
		Description: "Register a new funding project with an empty vault. The deadline is set by the server.",
	}, initializeProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "contribute",
		Description: "Pledge funds from the signer's wallet into a project's vault.",
	}, contributeHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "finalize_project",
		Description: "Resolve a project after its deadline. Pays out the vault on success; opens refunds on failure.",
	}, finalizeProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "claim_refund",
		Description: "Reclaim one pledge from a failed project's vault.",
	}, claimRefundHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "airdrop",
		Description: "Credit the signer's wallet with funds. Development faucet.",
	}, airdropHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_counter",
		Description: "Get the global project counter.",
	}, getCounterHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project by address.",
	}, getProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects ordered by sequence number.",
	}, listProjectsHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_vault",
		Description: "Get a project's vault and its escrowed total.",
	}, getVaultHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_contributions",
		Description: "List a project's contributions in arrival order.",
	}, listContributionsHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_balance",
		Description: "Get the balance of a wallet or vault account.",
	}, getBalanceHandler(svc))
}

// verifySigned checks the request signature over the canonical message for op
// and returns the authenticated caller key. Fields must be passed in the
// operation's documented parameter order.
func verifySigned(s Signed, op string, fields ...[]byte) (identity.PublicKey, error) {
	signer, err := identity.Parse(s.Signer)
	if err != nil {
		return identity.PublicKey{}, err
	}
	sig, err := hex.DecodeString(s.Signature)
	if err != nil {
		return identity.PublicKey{}, fmt.Errorf("%w: %v", identity.ErrInvalidSignature, err)
	}
	msg := identity.OperationMessage(op, fields...)
	if err := identity.Verify(signer, msg, sig); err != nil {
		return identity.PublicKey{}, err
	}
	return signer, nil
}

func initializeCounterHandler(svc LedgerService) sdkmcp.ToolHandlerFor[InitializeCounterInput, CounterResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input InitializeCounterInput) (*sdkmcp.CallToolResult, CounterResult, error) {
		payer, err := verifySigned(input.Signed, "initialize_counter")
		if err != nil {
			return nil, CounterResult{}, MapError(err)
		}

		counter, err := svc.InitializeCounter(ctx, payer)
		if err != nil {
			return nil, CounterResult{}, MapError(err)
		}
		return nil, CounterResult{Address: counter.Address.String(), Count: counter.Count}, nil
	}
}

func initializeProjectHandler(svc LedgerService) sdkmcp.ToolHandlerFor[InitializeProjectInput, ProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input InitializeProjectInput) (*sdkmcp.CallToolResult, ProjectResult, error) {
		creator, err := verifySigned(input.Signed, "initialize_project",
			[]byte(input.Title), []byte(input.Description), addr.Uint64LE(input.FundingGoal))
		if err != nil {
			return nil, ProjectResult{}, MapError(err)
		}

		project, err := svc.InitializeProject(ctx, creator, input.Title, input.Description, input.FundingGoal)
		if err != nil {
			return nil, ProjectResult{}, MapError(err)
		}
		return nil, toProjectResult(project), nil
	}
}

func contributeHandler(svc LedgerService) sdkmcp.ToolHandlerFor[ContributeInput, ContributionResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ContributeInput) (*sdkmcp.CallToolResult, ContributionResult, error) {
		project, err := addr.Parse(input.Project)
		if err != nil {
			return nil, ContributionResult{}, MapError(err)
		}
		contributor, err := verifySigned(input.Signed, "contribute",
			project.Bytes(), addr.Uint64LE(input.Amount), addr.Uint64LE(uint64(input.Timestamp)))
		if err != nil {
			return nil, ContributionResult{}, MapError(err)
		}

		contribution, err := svc.Contribute(ctx, contributor, project, input.Amount, input.Timestamp)
		if err != nil {
			return nil, ContributionResult{}, MapError(err)
		}
		return nil, toContributionResult(contribution), nil
	}
}

func finalizeProjectHandler(svc LedgerService) sdkmcp.ToolHandlerFor[FinalizeProjectInput, ProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input FinalizeProjectInput) (*sdkmcp.CallToolResult, ProjectResult, error) {
		project, err := addr.Parse(input.Project)
		if err != nil {
			return nil, ProjectResult{}, MapError(err)
		}
		caller, err := verifySigned(input.Signed, "finalize_project", project.Bytes())
		if err != nil {
			return nil, ProjectResult{}, MapError(err)
		}

		finalized, err := svc.FinalizeProject(ctx, caller, project)
		if err != nil {
			return nil, ProjectResult{}, MapError(err)
		}
		return nil, toProjectResult(finalized), nil
	}
}

func claimRefundHandler(svc LedgerService) sdkmcp.ToolHandlerFor[ClaimRefundInput, ContributionResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ClaimRefundInput) (*sdkmcp.CallToolResult, ContributionResult, error) {
		project, err := addr.Parse(input.Project)
		if err != nil {
			return nil, ContributionResult{}, MapError(err)
		}
		contribution, err := addr.Parse(input.Contribution)
		if err != nil {
			return nil, ContributionResult{}, MapError(err)
		}
		caller, err := verifySigned(input.Signed, "claim_refund", project.Bytes(), contribution.Bytes())
		if err != nil {
			return nil, ContributionResult{}, MapError(err)
		}

		refunded, err := svc.ClaimRefund(ctx, caller, project, contribution)
		if err != nil {
			return nil, ContributionResult{}, MapError(err)
		}
		return nil, toContributionResult(refunded), nil
	}
}

func airdropHandler(svc LedgerService) sdkmcp.ToolHandlerFor[AirdropInput, BalanceResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input AirdropInput) (*sdkmcp.CallToolResult, BalanceResult, error) {
		wallet, err := verifySigned(input.Signed, "airdrop", addr.Uint64LE(input.Amount))
		if err != nil {
			return nil, BalanceResult{}, MapError(err)
		}

		balance, err := svc.Airdrop(ctx, wallet, input.Amount)
		if err != nil {
			return nil, BalanceResult{}, MapError(err)
		}
		return nil, BalanceResult{Address: addr.Wallet(wallet).String(), Balance: balance}, nil
	}
}

func getCounterHandler(svc LedgerService) sdkmcp.ToolHandlerFor[GetCounterInput, CounterResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ GetCounterInput) (*sdkmcp.CallToolResult, CounterResult, error) {
		counter, err := svc.Counter(ctx)
		if err != nil {
			return nil, CounterResult{}, MapError(err)
		}
		return nil, CounterResult{Address: counter.Address.String(), Count: counter.Count}, nil
	}
}

func getProjectHandler(svc LedgerService) sdkmcp.ToolHandlerFor[GetProjectInput, ProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetProjectInput) (*sdkmcp.CallToolResult, ProjectResult, error) {
		project, err := addr.Parse(input.Project)
		if err != nil {
			return nil, ProjectResult{}, MapError(err)
		}
		proj, err := svc.Project(ctx, project)
		if err != nil {
			return nil, ProjectResult{}, MapError(err)
		}
		return nil, toProjectResult(proj), nil
	}
}

func listProjectsHandler(svc LedgerService) sdkmcp.ToolHandlerFor[ListProjectsInput, ProjectListResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsInput) (*sdkmcp.CallToolResult, ProjectListResult, error) {
		projects, err := svc.Projects(ctx)
		if err != nil {
			return nil, ProjectListResult{}, MapError(err)
		}
		result := ProjectListResult{Projects: make([]ProjectResult, 0, len(projects))}
		for i := range projects {
			result.Projects = append(result.Projects, toProjectResult(&projects[i]))
		}
		return nil, result, nil
	}
}

func getVaultHandler(svc LedgerService) sdkmcp.ToolHandlerFor[GetVaultInput, VaultResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetVaultInput) (*sdkmcp.CallToolResult, VaultResult, error) {
		project, err := addr.Parse(input.Project)
		if err != nil {
			return nil, VaultResult{}, MapError(err)
		}
		vault, err := svc.Vault(ctx, project)
		if err != nil {
			return nil, VaultResult{}, MapError(err)
		}
		return nil, VaultResult{
			Address:     vault.Address.String(),
			Project:     vault.Project.String(),
			TotalAmount: vault.TotalAmount,
		}, nil
	}
}

func listContributionsHandler(svc LedgerService) sdkmcp.ToolHandlerFor[ListContributionsInput, ContributionListResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ListContributionsInput) (*sdkmcp.CallToolResult, ContributionListResult, error) {
		project, err := addr.Parse(input.Project)
		if err != nil {
			return nil, ContributionListResult{}, MapError(err)
		}
		contributions, err := svc.Contributions(ctx, project)
		if err != nil {
			return nil, ContributionListResult{}, MapError(err)
		}
		result := ContributionListResult{Contributions: make([]ContributionResult, 0, len(contributions))}
		for i := range contributions {
			result.Contributions = append(result.Contributions, toContributionResult(&contributions[i]))
		}
		return nil, result, nil
	}
}

func getBalanceHandler(svc LedgerService) sdkmcp.ToolHandlerFor[GetBalanceInput, BalanceResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetBalanceInput) (*sdkmcp.CallToolResult, BalanceResult, error) {
		address, err := addr.Parse(input.Address)
		if err != nil {
			return nil, BalanceResult{}, MapError(err)
		}
		balance, err := svc.Balance(ctx, address)
		if err != nil {
			return nil, BalanceResult{}, MapError(err)
		}
		return nil, BalanceResult{Address: address.String(), Balance: balance}, nil
	}
}
