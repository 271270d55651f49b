// Package services implements the driving ports: the crawl, analysis,
// download, parse and watch pipelines. Services depend only on domain
// types and driven ports, never on concrete adapters.
package services
