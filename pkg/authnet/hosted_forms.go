package authnet

import (
	"context"
	"strings"

	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

// HostedFormSettings configures the gateway-hosted payment page issued
// against a token. Raw payment details never cross this application's trust
// boundary; the browser posts them straight to the hosted page.
type HostedFormSettings struct {
	ReturnURL             string
	IFrameCommunicatorURL string
	PageBorderVisible     bool
}

type hostedProfileSetting struct {
	SettingName  string `json:"settingName"`
	SettingValue string `json:"settingValue"`
}

type hostedProfileSettings struct {
	Setting []hostedProfileSetting `json:"setting"`
}

type getHostedProfilePageRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID      string                 `json:"customerProfileId"`
	HostedProfileSettings  *hostedProfileSettings `json:"hostedProfileSettings,omitempty"`
}

type getHostedProfilePageResponse struct {
	apiResponse
	Token string `json:"token"`
}

// GetHostedProfilePageToken issues a short-lived, single-use token the
// browser submits into the gateway's hosted iframe form.
func (c *Client) GetHostedProfilePageToken(ctx context.Context, profileID string, settings HostedFormSettings) (string, error) {
	if strings.TrimSpace(profileID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer profile id is required")
	}

	req := getHostedProfilePageRequest{
		MerchantAuthentication: c.auth,
		CustomerProfileID:      strings.TrimSpace(profileID),
		HostedProfileSettings:  settings.toPayload(),
	}
	var out getHostedProfilePageResponse
	if err := c.call(ctx, "getHostedProfilePage", req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Token) == "" {
		return "", pkgerrors.New(pkgerrors.CodeMalformed, "getHostedProfilePage response missing token")
	}
	return out.Token, nil
}

func (s HostedFormSettings) toPayload() *hostedProfileSettings {
	settings := []hostedProfileSetting{}
	if url := strings.TrimSpace(s.ReturnURL); url != "" {
		settings = append(settings, hostedProfileSetting{
			SettingName:  "hostedProfileReturnUrl",
			SettingValue: url,
		})
	}
	if url := strings.TrimSpace(s.IFrameCommunicatorURL); url != "" {
		settings = append(settings, hostedProfileSetting{
			SettingName:  "hostedProfileIFrameCommunicatorUrl",
			SettingValue: url,
		})
	}
	border := "false"
	if s.PageBorderVisible {
		border = "true"
	}
	settings = append(settings, hostedProfileSetting{
		SettingName:  "hostedProfilePageBorderVisible",
		SettingValue: border,
	})
	return &hostedProfileSettings{Setting: settings}
}
