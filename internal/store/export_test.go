package store

var TranslatePgError = translatePgError
