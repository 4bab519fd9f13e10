package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tanish431/CC-BackProj-3/models"
)

func TestValidateCredentials(t *testing.T) {
	valid := models.Credentials{Username: "alice_99", Password: "correct-horse"}
	assert.NoError(t, ValidateCredentials(&valid))

	cases := []struct {
		name  string
		creds models.Credentials
	}{
		{"short username", models.Credentials{Username: "ab", Password: "correct-horse"}},
		{"illegal characters", models.Credentials{Username: "alice!", Password: "correct-horse"}},
		{"short password", models.Credentials{Username: "alice", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ValidateCredentials(&tc.creds))
		})
	}
}

func TestValidateNewItem(t *testing.T) {
	valid := models.NewItemRequest{Name: "Desk", Price: 10, Quantity: 3}
	assert.NoError(t, ValidateNewItem(&valid))

	noName := models.NewItemRequest{Price: 10}
	assert.Error(t, ValidateNewItem(&noName))

	negativePrice := models.NewItemRequest{Name: "Desk", Price: -1}
	assert.Error(t, ValidateNewItem(&negativePrice))

	negativeStock := models.NewItemRequest{Name: "Desk", Quantity: -1}
	assert.Error(t, ValidateNewItem(&negativeStock))
}

func TestValidateItemUpdate(t *testing.T) {
	assert.NoError(t, ValidateItemUpdate(&models.UpdateItemRequest{}))

	name := "Desk"
	price := 12.5
	assert.NoError(t, ValidateItemUpdate(&models.UpdateItemRequest{Name: &name, Price: &price}))

	empty := ""
	assert.Error(t, ValidateItemUpdate(&models.UpdateItemRequest{Name: &empty}))

	negative := -0.01
	assert.Error(t, ValidateItemUpdate(&models.UpdateItemRequest{Price: &negative}))
}
