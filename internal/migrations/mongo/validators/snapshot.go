package validators

import "go.mongodb.org/mongo-driver/bson"

var SnapshotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"seq", "resources", "saved_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "string"},
			"seq": bson.M{"bsonType": "long"},
			"resources": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"resource_id"},
					"properties": bson.M{
						"resource_id": bson.M{"bsonType": "string"},
						"bookings":    bson.M{"bsonType": "array"},
						"requests":    bson.M{"bsonType": "array"},
					},
				},
			},
			"saved_at": bson.M{"bsonType": "date"},
		},
	},
}
