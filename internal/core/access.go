package core

// itarCapabilities is the closed capability table: role × classification.
// Only the ITAR column is restricted. Roles absent from the table are
// treated like RoleUser and may still be granted ITAR access through the
// actor's itar_auth flag.
var itarCapabilities = map[Role]map[ITARClassification]bool{
	RoleSuperUser: {ClassificationNone: true, ClassificationEAR99: true, ClassificationSensitive: true, ClassificationITAR: true},
	RoleManager:   {ClassificationNone: true, ClassificationEAR99: true, ClassificationSensitive: true, ClassificationITAR: true},
	RoleITAR:      {ClassificationNone: true, ClassificationEAR99: true, ClassificationSensitive: true, ClassificationITAR: true},
	RoleUser:      {ClassificationNone: true, ClassificationEAR99: true, ClassificationSensitive: true, ClassificationITAR: false},
	RoleViewer:    {ClassificationNone: true, ClassificationEAR99: true, ClassificationSensitive: true, ClassificationITAR: false},
}

// CanAccess reports whether an actor with the given role and itar_auth flag
// may operate on material of the given classification. Pure: no state, no
// side effects, safe for any number of concurrent callers.
func CanAccess(role Role, classification ITARClassification, itarAuth bool) bool {
	caps, ok := itarCapabilities[role]
	if !ok {
		caps = itarCapabilities[RoleUser]
	}
	if caps[classification] {
		return true
	}
	// The per-user authorization flag grants ITAR access to base roles.
	return classification == ClassificationITAR && itarAuth
}

// CanAccessITAR is the restricted-material capability check: privileged
// roles always pass, everyone else needs the itar_auth flag.
func CanAccessITAR(role Role, itarAuth bool) bool {
	return CanAccess(role, ClassificationITAR, itarAuth)
}
