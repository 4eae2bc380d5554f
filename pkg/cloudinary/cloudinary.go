// Package cloudinary implements the image provider gateway against the
// Cloudinary API: upload a binary, build a transformed rendition URL, and
// destroy a remote asset. Failures are surfaced as upstream errors and never
// retried here.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"photoshare/internal/apperrors"
	"photoshare/internal/services"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Provider talks to one Cloudinary account.
type Provider struct {
	cld *cloudinary.Cloudinary
}

// New creates a new Provider from account credentials.
func New(cloudName, apiKey, apiSecret string) (*Provider, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &Provider{cld: cld}, nil
}

// Upload sends the content to Cloudinary and returns the public URL and the
// asset's public ID.
func (p *Provider) Upload(ctx context.Context, content io.Reader) (string, string, error) {
	resp, err := p.cld.Upload.Upload(ctx, content, uploader.UploadParams{})
	if err != nil {
		return "", "", fmt.Errorf("image upload failed: %v: %w", err, apperrors.ErrUpstreamUnavailable)
	}
	if resp.SecureURL == "" || resp.PublicID == "" {
		return "", "", fmt.Errorf("image upload returned no asset: %w", apperrors.ErrUpstreamUnavailable)
	}
	return resp.SecureURL, resp.PublicID, nil
}

// Transform builds the URL of a derived rendition. The parameter bag is
// passed through verbatim; Cloudinary does the actual work on first fetch.
func (p *Provider) Transform(ctx context.Context, publicID string, t services.Transformation) (string, error) {
	img, err := p.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("transform of %s failed: %v: %w", publicID, err, apperrors.ErrUpstreamUnavailable)
	}
	img.Transformation = buildTransformation(t)
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("transform of %s failed: %v: %w", publicID, err, apperrors.ErrUpstreamUnavailable)
	}
	return url, nil
}

// Delete destroys the remote asset and invalidates cached copies.
func (p *Provider) Delete(ctx context.Context, publicID string) error {
	_, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("delete of %s failed: %v: %w", publicID, err, apperrors.ErrUpstreamUnavailable)
	}
	return nil
}

// buildTransformation renders the parameter bag in Cloudinary's URL syntax,
// e.g. "w_300,h_200,c_fill,e_sepia,a_90,g_face,r_20".
func buildTransformation(t services.Transformation) string {
	var parts []string
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Effect != "" {
		parts = append(parts, "e_"+t.Effect)
	}
	if t.Angle != 0 {
		parts = append(parts, "a_"+strconv.Itoa(t.Angle))
	}
	if t.Gravity != "" {
		parts = append(parts, "g_"+t.Gravity)
	}
	if t.Radius > 0 {
		parts = append(parts, "r_"+strconv.Itoa(t.Radius))
	}
	return strings.Join(parts, ",")
}
