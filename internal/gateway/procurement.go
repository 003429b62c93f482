package gateway

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/url"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// DashboardStats fetches the procurement dashboard counters for the caller
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.getJSON(ctx, RouteDashboardStats, RouteDashboardStats.Path, nil, "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListRFPs fetches the RFPs visible to the caller
func (c *Client) ListRFPs(ctx context.Context) ([]domain.RFP, error) {
	var rfps []domain.RFP
	if err := c.getJSON(ctx, RouteRFPs, RouteRFPs.Path, nil, "", &rfps); err != nil {
		return nil, err
	}
	return rfps, nil
}

// GetRFP fetches one RFP
func (c *Client) GetRFP(ctx context.Context, id string) (*domain.RFP, error) {
	if err := requireID("rfp", id); err != nil {
		return nil, err
	}
	var rfp domain.RFP
	if err := c.getJSON(ctx, RouteRFP, RouteRFP.Expand(id), nil, "", &rfp); err != nil {
		return nil, err
	}
	return &rfp, nil
}

// CreateRFP publishes a new RFP. Admin only.
func (c *Client) CreateRFP(ctx context.Context, draft domain.RFPDraft) (*domain.RFP, error) {
	var rfp domain.RFP
	if err := c.sendJSON(ctx, RouteCreateRFP, RouteCreateRFP.Path, draft, &rfp); err != nil {
		return nil, err
	}
	return &rfp, nil
}

// UpdateRFPStatus moves an RFP to another status. Admin only.
func (c *Client) UpdateRFPStatus(ctx context.Context, id string, status domain.RFPStatus) error {
	if err := requireID("rfp", id); err != nil {
		return err
	}
	q := url.Values{"status": {string(status)}}
	_, err := c.do(ctx, request{route: RouteRFPStatus, path: RouteRFPStatus.Expand(id), query: q})
	return err
}

// ListProposals fetches proposals: a vendor's own, or all of them for admins
func (c *Client) ListProposals(ctx context.Context) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	if err := c.getJSON(ctx, RouteProposals, RouteProposals.Path, nil, "", &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// GetProposal fetches one proposal
func (c *Client) GetProposal(ctx context.Context, id string) (*domain.Proposal, error) {
	if err := requireID("proposal", id); err != nil {
		return nil, err
	}
	var p domain.Proposal
	if err := c.getJSON(ctx, RouteProposal, RouteProposal.Expand(id), nil, "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SubmitProposal uploads a proposal as multipart form data with the fields
// rfp_id, technical_file and commercial_file. Vendor only.
func (c *Client) SubmitProposal(ctx context.Context, sub domain.ProposalSubmission) (*domain.SubmitResult, error) {
	if err := requireID("rfp", sub.RFPID); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("rfp_id", sub.RFPID); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeGatewayEncode, "failed to encode proposal", err)
	}
	for field, att := range map[string]*domain.Attachment{
		"technical_file":  sub.Technical,
		"commercial_file": sub.Commercial,
	} {
		if att == nil {
			continue
		}
		part, err := w.CreateFormFile(field, att.Name)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeGatewayEncode, "failed to encode proposal", err)
		}
		if _, err := part.Write(att.Content); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeGatewayEncode, "failed to encode proposal", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeGatewayEncode, "failed to encode proposal", err)
	}

	body, err := c.do(ctx, request{
		route:       RouteSubmitProposal,
		path:        RouteSubmitProposal.Path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var res domain.SubmitResult
	if err := decode(body, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// EvaluateProposal asks the backend to score a proposal. Admin only.
func (c *Client) EvaluateProposal(ctx context.Context, id string) (*domain.EvaluationResult, error) {
	if err := requireID("proposal", id); err != nil {
		return nil, err
	}
	var res domain.EvaluationResult
	if err := c.sendJSON(ctx, RouteEvaluateProposal, RouteEvaluateProposal.Expand(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListContracts fetches contracts visible to the caller
func (c *Client) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	var contracts []domain.Contract
	if err := c.getJSON(ctx, RouteContracts, RouteContracts.Path, nil, "contracts", &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// GetContract fetches one contract
func (c *Client) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	if err := requireID("contract", id); err != nil {
		return nil, err
	}
	var ct domain.Contract
	if err := c.getJSON(ctx, RouteContract, RouteContract.Expand(id), nil, "", &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

// GetContractDocument fetches one contract document including its content
func (c *Client) GetContractDocument(ctx context.Context, contractID, docID string) (*domain.ContractDocument, error) {
	if err := requireID("contract", contractID); err != nil {
		return nil, err
	}
	if err := requireID("document", docID); err != nil {
		return nil, err
	}
	var doc domain.ContractDocument
	if err := c.getJSON(ctx, RouteContractDocument, RouteContractDocument.Expand(contractID, docID), nil, "", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListVendors fetches every registered vendor. Admin only.
func (c *Client) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	if err := c.getJSON(ctx, RouteVendors, RouteVendors.Path, nil, "", &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// SetVendorApproval approves or rejects a vendor. Admin only.
func (c *Client) SetVendorApproval(ctx context.Context, id string, approved bool) error {
	if err := requireID("vendor", id); err != nil {
		return err
	}
	route := RouteRejectVendor
	if approved {
		route = RouteApproveVendor
	}
	_, err := c.do(ctx, request{route: route, path: route.Expand(id)})
	return err
}
