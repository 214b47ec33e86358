/*
Package observability provides tools for monitoring the chomsky engine.

It includes Prometheus collectors fed by pipeline hooks, structured-logging
hooks for auditing each stage, and helpers to combine several hook sets.
*/
package observability
