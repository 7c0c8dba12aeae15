package collectors

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/Hru-s/vaultpermdiff/internal/model"
	"github.com/Hru-s/vaultpermdiff/internal/vault"
)

// PermissionSource is the part of the Vault API the collector needs.
type PermissionSource interface {
	SecurityProfile(ctx context.Context, key string) ([]string, error)
	PermissionSet(ctx context.Context, key string) ([]vault.Permission, error)
}

// Collector resolves security profiles into flat permission records.
type Collector struct {
	src PermissionSource
}

// NewCollector returns a Collector reading from src.
func NewCollector(src PermissionSource) *Collector {
	return &Collector{src: src}
}

// ListPermissionSets returns the permission set ids of a security profile.
func (c *Collector) ListPermissionSets(ctx context.Context, profileID string) ([]string, error) {
	sets, err := c.src.SecurityProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing permission sets of profile %s: %w", profileID, err)
	}
	return sets, nil
}

// ListPermissions returns the raw permissions of a permission set.
func (c *Collector) ListPermissions(ctx context.Context, permissionSetID string) ([]vault.Permission, error) {
	perms, err := c.src.PermissionSet(ctx, permissionSetID)
	if err != nil {
		return nil, fmt.Errorf("listing permissions of permission set %s: %w", permissionSetID, err)
	}
	return perms, nil
}

// Collect flattens every permission of every permission set referenced by the
// profile into normalized records, in discovery order. Duplicates are kept.
func (c *Collector) Collect(ctx context.Context, profileID string) ([]model.PermissionRecord, error) {
	sets, err := c.ListPermissionSets(ctx, profileID)
	if err != nil {
		return nil, err
	}

	out := []model.PermissionRecord{}
	for _, set := range sets {
		perms, err := c.ListPermissions(ctx, set)
		if err != nil {
			return nil, err
		}
		for _, p := range perms {
			out = append(out, model.NewPermissionRecord(
				p.Object, p.PermissionGroup, p.PermissionSubgroup, p.PermissionList))
		}
	}

	klog.V(2).InfoS("Collected permissions", "profile", profileID,
		"permissionSets", len(sets), "records", len(out))
	if klogV := klog.V(2); klogV.Enabled() {
		for _, r := range out {
			klogV.InfoS("Permission record", "profile", profileID, "record", r.String())
		}
	}
	return out, nil
}

// CollectPair collects the source and target profiles. With parallel set the
// two collections run concurrently; they share no mutable state.
func (c *Collector) CollectPair(
	ctx context.Context,
	sourceID, targetID string,
	parallel bool,
) (source, target []model.PermissionRecord, err error) {
	if !parallel {
		source, err = c.Collect(ctx, sourceID)
		if err != nil {
			return nil, nil, fmt.Errorf("collecting source profile: %w", err)
		}
		target, err = c.Collect(ctx, targetID)
		if err != nil {
			return nil, nil, fmt.Errorf("collecting target profile: %w", err)
		}
		return source, target, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		source, err = c.Collect(gctx, sourceID)
		if err != nil {
			return fmt.Errorf("collecting source profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		target, err = c.Collect(gctx, targetID)
		if err != nil {
			return fmt.Errorf("collecting target profile: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return source, target, nil
}
