// Package services implements the driving ports: document ingestion,
// removal, reprocessing, index rebuild, search and knowledge retrieval.
// Services orchestrate the driven ports and own all index mutation.
package services
