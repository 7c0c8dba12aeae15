package vault

import "context"

// Permission is one raw permission entry of a permission set.
type Permission struct {
	Object             string   `json:"object"`
	PermissionGroup    string   `json:"permission_group"`
	PermissionSubgroup string   `json:"permission_subgroup"`
	PermissionList     []string `json:"permission_list"`
}

type securityProfileResponse struct {
	Data struct {
		PermissionSets []string `json:"permission_sets"`
	} `json:"data"`
}

type permissionSetResponse struct {
	Data struct {
		Permission []Permission `json:"permission"`
	} `json:"data"`
}

// SecurityProfile returns the permission set ids referenced by a security
// profile. A missing field or empty body yields an empty slice.
func (c *Client) SecurityProfile(ctx context.Context, key string) ([]string, error) {
	var resp securityProfileResponse
	if err := c.Get(ctx, c.BuildURL("Securityprofile", key), &resp); err != nil {
		return nil, err
	}
	if resp.Data.PermissionSets == nil {
		return []string{}, nil
	}
	return resp.Data.PermissionSets, nil
}

// PermissionSet returns the raw permissions of a permission set. A missing
// field or empty body yields an empty slice.
func (c *Client) PermissionSet(ctx context.Context, key string) ([]Permission, error) {
	var resp permissionSetResponse
	if err := c.Get(ctx, c.BuildURL("Permissionset", key), &resp); err != nil {
		return nil, err
	}
	if resp.Data.Permission == nil {
		return []Permission{}, nil
	}
	return resp.Data.Permission, nil
}
