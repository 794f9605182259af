// Package db provides PostgreSQL connection management for vault load runs.
//
// It covers connection string parsing (URI and ADO.NET formats), pool
// construction with retry on transient failures, cloud IAM authentication
// (AWS RDS, Google Cloud SQL, Azure Entra ID), and the adapter that exposes
// a pgxpool.Pool through the dvload.DBConnection interface.
package db
