package secrets

import (
	"context"
	"fmt"
)

type (
	// Ref points a config field at the secret holding its value.
	Ref struct {
		ID  string
		Dst *string
	}
)

// Resolve reads every referenced secret with a non-empty id into its destination.
// The service is created lazily by newService, only when some id is set.
func Resolve(ctx context.Context, newService func(context.Context) (Service, error), refs ...Ref) error {
	var svc Service
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		if svc == nil {
			var err error
			if svc, err = newService(ctx); err != nil {
				return fmt.Errorf("error creating secrets service: %w", err)
			}
			defer svc.Close()
		}
		v, err := svc.Read(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("error reading secret '%s': %w", ref.ID, err)
		}
		*ref.Dst = v
	}
	return nil
}
