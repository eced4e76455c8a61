// Package recinject assembles the pages of a small static multi-page site
// from one shared markup resource.
//
// Every page of the site carries placeholder slots, elements marked with a
// data-include attribute naming a slot kind: "header", "hero", or "footer".
// The shared resource holds one <template> per slot kind, plus a global
// <style> block. Assembling a page fetches the shared resource, splices a
// fresh copy of each template into the matching slot, and then finishes the
// injected markup: the navigation link for the page's section is marked
// current, the hero is filled in from data-hero-* attributes declared on the
// page's <html> element, the mobile menu gets a controller, and the footer
// gets the current year.
//
// The unit of work is a Page, a parsed document together with the URL it was
// loaded from. Pass it to Assemble (or Render, which also writes the result)
// along with a Site, which supplies the location of the shared resource and
// optionally the HTTP client, clock, and error notice to use. StaticSite is a
// ready-made Site that can be embedded in other Site implementations.
//
// Each run is independent: nothing is cached between pages, and a failure
// at any step stops the run and prepends a human-readable notice to the page
// instead.
package recinject
