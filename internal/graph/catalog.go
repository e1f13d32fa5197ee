package graph

// entityCategories groups the entity catalog for the metadata subgraph
var entityCategories = []struct {
	name  string
	types []EntityType
}{
	{"Organizational", []EntityType{TypeOrganization, TypeDepartment, TypeTeam, TypePerson, TypeRole}},
	{"Infrastructure", []EntityType{TypeLocation, TypeBuilding, TypeRoom, TypeRack, TypeDataCenter}},
	{"Hardware", []EntityType{TypeHardwareAsset, TypeServer, TypeVirtualServer, TypeNetworkDevice, TypeStorageDevice, TypeEndpoint}},
	{"Software", []EntityType{TypeSoftwareAsset, TypeOperatingSystem, TypeApplication, TypeDatabase, TypeMiddleware, TypeServiceSoftware}},
	{"Services", []EntityType{TypeBusinessService, TypeITService, TypeBusinessProcess, TypeServiceComponent, TypeContract, TypeSLA}},
	{"Network", []EntityType{TypeNetwork, TypeSubnet, TypeVLAN, TypeIPAddress, TypeFirewallRule, TypeNetworkSegment}},
	{"ChangeManagement", []EntityType{TypeIncident, TypeProblem, TypeChange, TypeRelease, TypeTicket, TypeMaintenance}},
	{"Security", []EntityType{TypeSecurityControl, TypeSecurityPolicy, TypeVulnerability, TypeComplianceRequirement, TypeAccessControl}},
}

// relationCategories groups the relationship catalog the same way
var relationCategories = []struct {
	name  string
	types []RelationType
}{
	{"Organizational", []RelationType{RelBelongsTo, RelReportsTo, RelManages, RelWorksIn, RelHasRole}},
	{"Physical", []RelationType{RelLocatedIn, RelContains, RelAdjacentTo, RelMountedIn}},
	{"Technical", []RelationType{RelRunsOn, RelConnectsTo, RelDependsOn, RelHosts, RelPartOf, RelInstalledOn, RelCommunicatesWith}},
	{"Service", []RelationType{RelProvides, RelConsumes, RelSupports, RelImplements, RelDelivers}},
	{"Responsibility", []RelationType{RelResponsibleFor, RelOwns, RelAssignedTo, RelSupportsL1, RelSupportsL2, RelSupportsL3, RelAdministers}},
	{"ChangeManagement", []RelationType{RelAffects, RelResolves, RelRelatedTo, RelCausedBy, RelRequestedBy, RelImplementedBy}},
	{"Security", []RelationType{RelProtects, RelEnforces, RelCompliesWith, RelHasVulnerability, RelMitigates, RelGrantsAccess}},
	{"Temporal", []RelationType{RelPrecedes, RelSucceededBy, RelScheduledFor, RelValidFrom, RelValidTo}},
	{"Business", []RelationType{RelDefinedIn, RelReferencedBy, RelContributesTo, RelRegulatedBy, RelHasSLA}},
}

// EntityTypeCatalog enumerates every entity type with its category, in
// catalog order. This is what the seed script writes into the metadata
// subgraph.
func EntityTypeCatalog() []TypeInfo {
	var items []TypeInfo
	for _, cat := range entityCategories {
		for _, t := range cat.types {
			items = append(items, TypeInfo{Name: string(t), Category: cat.name})
		}
	}
	return items
}

// RelationTypeCatalog enumerates every relationship type with its category
func RelationTypeCatalog() []TypeInfo {
	var items []TypeInfo
	for _, cat := range relationCategories {
		for _, t := range cat.types {
			items = append(items, TypeInfo{Name: string(t), Category: cat.name})
		}
	}
	return items
}
