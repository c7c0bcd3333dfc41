package models

// Permission constants
const (
	// Deal permissions
	PermissionDealRead   = "deal:read"
	PermissionDealWrite  = "deal:write"
	PermissionDealDecide = "deal:decide"
	PermissionDealDelete = "deal:delete"

	// Merchant permissions
	PermissionMerchantRead  = "merchant:read"
	PermissionMerchantWrite = "merchant:write"

	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"
)

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionDealRead,
			PermissionDealWrite,
			PermissionDealDecide,
			PermissionDealDelete,
			PermissionMerchantRead,
			PermissionMerchantWrite,
		}
	case RoleUnderwriter:
		return []string{
			PermissionDealRead,
			PermissionDealWrite,
			PermissionDealDecide,
			PermissionMerchantRead,
		}
	case RoleBroker, RoleSales:
		return []string{
			PermissionDealRead,
			PermissionDealWrite,
			PermissionMerchantRead,
			PermissionMerchantWrite,
		}
	default:
		return []string{}
	}
}
