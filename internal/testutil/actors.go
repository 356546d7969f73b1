package testutil

import (
	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

func Admin() scope.Actor {
	return scope.Actor{UserID: uuid.New(), Username: "admin_super", Role: constants.RoleAdmin}
}

func Senior(host string) scope.Actor {
	return scope.Actor{UserID: uuid.New(), Username: "senior_" + host, Role: constants.RoleSenior, Host: host}
}

func Junior(host string) scope.Actor {
	return scope.Actor{UserID: uuid.New(), Username: "junior_" + host, Role: constants.RoleJunior, Host: host}
}
