package catalog

import (
	"time"

	"github.com/voltbid/voltbid/internal/models"
	"github.com/voltbid/voltbid/internal/store"
)

// Cost code categories.
const (
	CategoryEquipment   = "EQUIPMENT"
	CategoryConcrete    = "CONCRETE"
	CategoryConduit     = "CONDUIT"
	CategoryWire        = "WIRE"
	CategorySite        = "SITE"
	CategoryGrounding   = "GROUNDING"
	CategorySafety      = "SAFETY"
	CategoryLabor       = "LABOR"
	CategoryRestoration = "RESTORATION"
)

// seedCostCodes is the installation catalog subset required by BOM
// generation. Rates are blended unit cost with the material/labor
// split used for markups.
var seedCostCodes = []models.CostCode{
	{Code: "EQUIP-001", Category: CategoryEquipment, Description: "Level 2 charging station (7.2 kW)", Unit: "EA", UnitCost: 2500, MaterialCost: 2500, LaborCost: 0},
	{Code: "EQUIP-003", Category: CategoryEquipment, Description: "DC Fast Charger (50 kW)", Unit: "EA", UnitCost: 35000, MaterialCost: 35000, LaborCost: 0},
	{Code: "EQUIP-006", Category: CategoryEquipment, Description: "Electrical service panel (200A)", Unit: "EA", UnitCost: 1200, MaterialCost: 800, LaborCost: 400},
	{Code: "EQUIP-008", Category: CategoryEquipment, Description: "Transformer (75 kVA)", Unit: "EA", UnitCost: 8500, MaterialCost: 7500, LaborCost: 1000},
	{Code: "CONC-001", Category: CategoryConcrete, Description: "4-inch concrete pad", Unit: "SF", UnitCost: 8.50, MaterialCost: 4.25, LaborCost: 4.25},
	{Code: "CONC-008", Category: CategoryConcrete, Description: "Reinforced concrete pad (with rebar)", Unit: "SF", UnitCost: 15, MaterialCost: 8, LaborCost: 7},
	{Code: "COND-002", Category: CategoryConduit, Description: "2-inch PVC conduit", Unit: "LF", UnitCost: 4.50, MaterialCost: 2.25, LaborCost: 2.25},
	{Code: "COND-007", Category: CategoryConduit, Description: "3-inch rigid metal conduit (RMC)", Unit: "LF", UnitCost: 18, MaterialCost: 11, LaborCost: 7},
	{Code: "WIRE-001", Category: CategoryWire, Description: "#6 AWG copper wire (THHN/THWN)", Unit: "LF", UnitCost: 2.50, MaterialCost: 1.80, LaborCost: 0.70},
	{Code: "WIRE-010", Category: CategoryWire, Description: "500 kcmil copper wire", Unit: "LF", UnitCost: 32, MaterialCost: 26, LaborCost: 6},
	{Code: "SITE-001", Category: CategorySite, Description: "Excavation (trenching)", Unit: "LF", UnitCost: 12, MaterialCost: 0, LaborCost: 12},
	{Code: "GRND-001", Category: CategoryGrounding, Description: "Ground rod (8-foot copper)", Unit: "EA", UnitCost: 85, MaterialCost: 45, LaborCost: 40},
	{Code: "GRND-002", Category: CategoryGrounding, Description: "Ground rod (10-foot copper)", Unit: "EA", UnitCost: 110, MaterialCost: 60, LaborCost: 50},
	{Code: "SAFE-001", Category: CategorySafety, Description: "Steel bollards (protective)", Unit: "EA", UnitCost: 350, MaterialCost: 250, LaborCost: 100},
	{Code: "LABOR-001", Category: CategoryLabor, Description: "Licensed electrician (journeyman)", Unit: "HR", UnitCost: 95, MaterialCost: 0, LaborCost: 95},
	{Code: "LABOR-002", Category: CategoryLabor, Description: "Master electrician", Unit: "HR", UnitCost: 125, MaterialCost: 0, LaborCost: 125},
	{Code: "REST-001", Category: CategoryRestoration, Description: "Asphalt patching", Unit: "SF", UnitCost: 8, MaterialCost: 4, LaborCost: 4},
	{Code: "REST-002", Category: CategoryRestoration, Description: "Full asphalt restoration", Unit: "SF", UnitCost: 12, MaterialCost: 6.50, LaborCost: 5.50},
}

// Seed upserts the built-in cost code catalog.
func Seed(db *store.DB) error {
	now := time.Now().UTC()
	for _, cc := range seedCostCodes {
		cc.IsActive = true
		cc.CreatedAt = now
		if err := db.UpsertCostCode(cc); err != nil {
			return err
		}
	}
	return nil
}
