package graph

// EntityStatus is the lifecycle status of a CMDB entity
type EntityStatus string

const (
	StatusActive         EntityStatus = "Active"
	StatusInactive       EntityStatus = "Inactive"
	StatusMaintenance    EntityStatus = "Maintenance"
	StatusPlanned        EntityStatus = "Planned"
	StatusDecommissioned EntityStatus = "Decommissioned"
	StatusDevelopment    EntityStatus = "Development"
	StatusTesting        EntityStatus = "Testing"
)

// EntityType is the closed catalog of CMDB entity types
type EntityType string

const (
	// Organizational
	TypeOrganization EntityType = "Organization"
	TypeDepartment   EntityType = "Department"
	TypeTeam         EntityType = "Team"
	TypePerson       EntityType = "Person"
	TypeRole         EntityType = "Role"

	// Infrastructure
	TypeLocation   EntityType = "Location"
	TypeBuilding   EntityType = "Building"
	TypeRoom       EntityType = "Room"
	TypeRack       EntityType = "Rack"
	TypeDataCenter EntityType = "DataCenter"

	// Hardware
	TypeHardwareAsset EntityType = "HardwareAsset"
	TypeServer        EntityType = "Server"
	TypeVirtualServer EntityType = "VirtualServer"
	TypeNetworkDevice EntityType = "NetworkDevice"
	TypeStorageDevice EntityType = "StorageDevice"
	TypeEndpoint      EntityType = "Endpoint"

	// Software
	TypeSoftwareAsset   EntityType = "SoftwareAsset"
	TypeOperatingSystem EntityType = "OperatingSystem"
	TypeApplication     EntityType = "Application"
	TypeDatabase        EntityType = "Database"
	TypeMiddleware      EntityType = "Middleware"
	TypeServiceSoftware EntityType = "ServiceSoftware"

	// Services
	TypeBusinessService  EntityType = "BusinessService"
	TypeITService        EntityType = "ITService"
	TypeBusinessProcess  EntityType = "BusinessProcess"
	TypeServiceComponent EntityType = "ServiceComponent"
	TypeContract         EntityType = "Contract"
	TypeSLA              EntityType = "SLA"

	// Network
	TypeNetwork        EntityType = "Network"
	TypeSubnet         EntityType = "Subnet"
	TypeVLAN           EntityType = "VLAN"
	TypeIPAddress      EntityType = "IPAddress"
	TypeFirewallRule   EntityType = "FirewallRule"
	TypeNetworkSegment EntityType = "NetworkSegment"

	// Change management
	TypeIncident    EntityType = "Incident"
	TypeProblem     EntityType = "Problem"
	TypeChange      EntityType = "Change"
	TypeRelease     EntityType = "Release"
	TypeTicket      EntityType = "Ticket"
	TypeMaintenance EntityType = "Maintenance"

	// Security
	TypeSecurityControl       EntityType = "SecurityControl"
	TypeSecurityPolicy        EntityType = "SecurityPolicy"
	TypeVulnerability         EntityType = "Vulnerability"
	TypeComplianceRequirement EntityType = "ComplianceRequirement"
	TypeAccessControl         EntityType = "AccessControl"
)

// RelationType is the closed catalog of CMDB relationship types
type RelationType string

const (
	// Organizational
	RelBelongsTo RelationType = "BELONGS_TO"
	RelReportsTo RelationType = "REPORTS_TO"
	RelManages   RelationType = "MANAGES"
	RelWorksIn   RelationType = "WORKS_IN"
	RelHasRole   RelationType = "HAS_ROLE"

	// Physical
	RelLocatedIn  RelationType = "LOCATED_IN"
	RelContains   RelationType = "CONTAINS"
	RelAdjacentTo RelationType = "ADJACENT_TO"
	RelMountedIn  RelationType = "MOUNTED_IN"

	// Technical
	RelRunsOn           RelationType = "RUNS_ON"
	RelConnectsTo       RelationType = "CONNECTS_TO"
	RelDependsOn        RelationType = "DEPENDS_ON"
	RelHosts            RelationType = "HOSTS"
	RelPartOf           RelationType = "PART_OF"
	RelInstalledOn      RelationType = "INSTALLED_ON"
	RelCommunicatesWith RelationType = "COMMUNICATES_WITH"

	// Service
	RelProvides   RelationType = "PROVIDES"
	RelConsumes   RelationType = "CONSUMES"
	RelSupports   RelationType = "SUPPORTS"
	RelImplements RelationType = "IMPLEMENTS"
	RelDelivers   RelationType = "DELIVERS"

	// Responsibility
	RelResponsibleFor RelationType = "RESPONSIBLE_FOR"
	RelOwns           RelationType = "OWNS"
	RelAssignedTo     RelationType = "ASSIGNED_TO"
	RelSupportsL1     RelationType = "SUPPORTS_L1"
	RelSupportsL2     RelationType = "SUPPORTS_L2"
	RelSupportsL3     RelationType = "SUPPORTS_L3"
	RelAdministers    RelationType = "ADMINISTERS"

	// Change management
	RelAffects       RelationType = "AFFECTS"
	RelResolves      RelationType = "RESOLVES"
	RelRelatedTo     RelationType = "RELATED_TO"
	RelCausedBy      RelationType = "CAUSED_BY"
	RelRequestedBy   RelationType = "REQUESTED_BY"
	RelImplementedBy RelationType = "IMPLEMENTED_BY"

	// Security
	RelProtects         RelationType = "PROTECTS"
	RelEnforces         RelationType = "ENFORCES"
	RelCompliesWith     RelationType = "COMPLIES_WITH"
	RelHasVulnerability RelationType = "HAS_VULNERABILITY"
	RelMitigates        RelationType = "MITIGATES"
	RelGrantsAccess     RelationType = "GRANTS_ACCESS"

	// Temporal
	RelPrecedes     RelationType = "PRECEDES"
	RelSucceededBy  RelationType = "SUCCEEDED_BY"
	RelScheduledFor RelationType = "SCHEDULED_FOR"
	RelValidFrom    RelationType = "VALID_FROM"
	RelValidTo      RelationType = "VALID_TO"

	// Business
	RelDefinedIn     RelationType = "DEFINED_IN"
	RelReferencedBy  RelationType = "REFERENCED_BY"
	RelContributesTo RelationType = "CONTRIBUTES_TO"
	RelRegulatedBy   RelationType = "REGULATED_BY"
	RelHasSLA        RelationType = "HAS_SLA"
)

// GenericLabel is the node label covering entities of any type
const GenericLabel = "Entity"

// Shape describes how one entity type is stored: the node label and the
// closed set of property names that may appear in dynamically assembled
// query fragments (SET lists, search fields)
type Shape struct {
	Label  string
	Fields []string
}

// HasField reports whether name is part of the shape's allow-list
func (s Shape) HasField(name string) bool {
	for _, f := range s.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// FilterFields keeps only the names present in the shape's allow-list,
// preserving order
func (s Shape) FilterFields(names []string) []string {
	allowed := make([]string, 0, len(names))
	for _, name := range names {
		if s.HasField(name) {
			allowed = append(allowed, name)
		}
	}
	return allowed
}

// baseFields are the properties shared by every entity type
var baseFields = []string{
	"id", "name", "type", "status", "description",
	"properties", "created_at", "updated_at",
}

// Registry resolves entity type tags to storage shapes. It is also the
// authority for which labels, relationship types and property names are
// allowed to be interpolated into query text; values never come from
// caller input directly.
type Registry struct {
	shapes        map[EntityType]Shape
	relationTypes map[RelationType]struct{}
	generic       Shape
}

// NewRegistry builds the dispatch tables once
func NewRegistry() *Registry {
	r := &Registry{
		shapes:        make(map[EntityType]Shape),
		relationTypes: make(map[RelationType]struct{}),
		generic:       Shape{Label: GenericLabel, Fields: baseFields},
	}

	dedicated := map[EntityType][]string{
		TypeServer:      {"manufacturer", "model", "serial_number", "rack_id"},
		TypeApplication: {"version", "vendor", "criticality", "owner_id"},
		TypeITService:   {"criticality", "business_hours", "owner_id", "service_level"},
		TypePerson:      {"email", "phone", "department_id"},
		TypeIncident:    {"title", "priority", "assigned_to", "affected_services"},
	}

	for _, t := range allEntityTypes {
		shape := Shape{Label: string(t), Fields: baseFields}
		if extra, ok := dedicated[t]; ok {
			fields := make([]string, 0, len(baseFields)+len(extra))
			fields = append(fields, baseFields...)
			fields = append(fields, extra...)
			shape.Fields = fields
		}
		r.shapes[t] = shape
	}

	for _, t := range allRelationTypes {
		r.relationTypes[t] = struct{}{}
	}

	return r
}

// Resolve maps a type tag to its storage shape. Unknown or empty tags fall
// back to the generic Entity label with the base attribute set.
func (r *Registry) Resolve(tag string) Shape {
	if tag == "" || tag == "BaseEntity" {
		return r.generic
	}
	if shape, ok := r.shapes[EntityType(tag)]; ok {
		return shape
	}
	// Tags arrive in mixed case from callers ("SERVER" vs "Server");
	// match the catalog ignoring case before giving up.
	if t, ok := lookupEntityType(tag); ok {
		return r.shapes[t]
	}
	return r.generic
}

// IsEntityType reports whether tag is part of the closed entity catalog
func (r *Registry) IsEntityType(tag string) bool {
	_, ok := r.shapes[EntityType(tag)]
	return ok
}

// IsRelationType reports whether tag is part of the closed relationship
// catalog. Callers must check this before interpolating an edge type into
// query text; Cypher does not allow parameter-bound relationship types.
func (r *Registry) IsRelationType(tag string) bool {
	_, ok := r.relationTypes[RelationType(tag)]
	return ok
}

// AllowedUpdateFields filters names down to those present in the resolved
// shape's allow-list. Anything else is dropped before query assembly.
func (r *Registry) AllowedUpdateFields(tag string, names []string) []string {
	return r.Resolve(tag).FilterFields(names)
}

var allEntityTypes = []EntityType{
	TypeOrganization, TypeDepartment, TypeTeam, TypePerson, TypeRole,
	TypeLocation, TypeBuilding, TypeRoom, TypeRack, TypeDataCenter,
	TypeHardwareAsset, TypeServer, TypeVirtualServer, TypeNetworkDevice,
	TypeStorageDevice, TypeEndpoint,
	TypeSoftwareAsset, TypeOperatingSystem, TypeApplication, TypeDatabase,
	TypeMiddleware, TypeServiceSoftware,
	TypeBusinessService, TypeITService, TypeBusinessProcess,
	TypeServiceComponent, TypeContract, TypeSLA,
	TypeNetwork, TypeSubnet, TypeVLAN, TypeIPAddress, TypeFirewallRule,
	TypeNetworkSegment,
	TypeIncident, TypeProblem, TypeChange, TypeRelease, TypeTicket,
	TypeMaintenance,
	TypeSecurityControl, TypeSecurityPolicy, TypeVulnerability,
	TypeComplianceRequirement, TypeAccessControl,
}

var allRelationTypes = []RelationType{
	RelBelongsTo, RelReportsTo, RelManages, RelWorksIn, RelHasRole,
	RelLocatedIn, RelContains, RelAdjacentTo, RelMountedIn,
	RelRunsOn, RelConnectsTo, RelDependsOn, RelHosts, RelPartOf,
	RelInstalledOn, RelCommunicatesWith,
	RelProvides, RelConsumes, RelSupports, RelImplements, RelDelivers,
	RelResponsibleFor, RelOwns, RelAssignedTo, RelSupportsL1, RelSupportsL2,
	RelSupportsL3, RelAdministers,
	RelAffects, RelResolves, RelRelatedTo, RelCausedBy, RelRequestedBy,
	RelImplementedBy,
	RelProtects, RelEnforces, RelCompliesWith, RelHasVulnerability,
	RelMitigates, RelGrantsAccess,
	RelPrecedes, RelSucceededBy, RelScheduledFor, RelValidFrom, RelValidTo,
	RelDefinedIn, RelReferencedBy, RelContributesTo, RelRegulatedBy, RelHasSLA,
}
