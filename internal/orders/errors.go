package orders

import (
	"errors"
	"fmt"

	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
)

var (
	// ErrOrderNotFound marks an update or delete against a missing order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderTransactionFailed marks a rolled back order mutation.
	ErrOrderTransactionFailed = errors.New("order transaction failed")
)

func orderNotFound() error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrOrderNotFound, "order not found")
}

// transactionFailed keeps validation, not-found and stock conflicts intact and
// folds every other failure into ErrOrderTransactionFailed.
func transactionFailed(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOrderNotFound) {
		return err
	}
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation, pkgerrors.CodeStateConflict:
			return err
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("%w: %w", ErrOrderTransactionFailed, err), "order transaction failed")
}
