package orders

import (
	"testing"

	"farmfork/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFarmerOrdersFilterScopesToOwnProducts(t *testing.T) {
	filter := farmerOrdersFilter(models.RoleFarmer, "farmer1")
	assert.Equal(t, bson.M{"items.farmerid": "farmer1"}, filter)
}

func TestFarmerOrdersFilterGivesAdminsEverything(t *testing.T) {
	// an admin id never appears in items.farmerid, so scoping by it
	// would always return an empty list
	filter := farmerOrdersFilter(models.RoleAdmin, "admin1")
	assert.Equal(t, bson.M{}, filter)
}
