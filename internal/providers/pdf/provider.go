// Package pdf renders invoice documents for download.
package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

type Provider interface {
	GenerateInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
