package negotiations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDuplicateStartIsRecognizedForReRead(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	assert.True(t, isDuplicateKeyError(dup))
}

func TestOtherInsertErrorsAreNotTreatedAsDuplicates(t *testing.T) {
	assert.False(t, isDuplicateKeyError(nil))
	assert.False(t, isDuplicateKeyError(errors.New("server selection timeout")))
	// document validation failure, not a key collision
	assert.False(t, isDuplicateKeyError(mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121}}}))
}
