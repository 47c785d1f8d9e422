package engine

// uaStylesheet is the built-in user-agent sheet. Author sheets layer on
// top of it through the cascade's origin ordering.
const uaStylesheet = `
head, title, meta, link, style, script, template { display: none; }
html, body { display: block; }
body { margin: 8px; }
div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, blockquote, pre,
form, fieldset, table, hr, address, article, aside, footer,
header, main, nav, section, figure, figcaption { display: block; }
p, blockquote, ul, ol, pre, figure { margin-top: 16px; margin-bottom: 16px; }
h1 { font-size: 2rem; margin-top: 21px; margin-bottom: 21px; font-weight: bold; }
h2 { font-size: 1.5rem; margin-top: 20px; margin-bottom: 20px; font-weight: bold; }
h3 { font-size: 1.17rem; margin-top: 19px; margin-bottom: 19px; font-weight: bold; }
h4 { margin-top: 21px; margin-bottom: 21px; font-weight: bold; }
h5 { font-size: 0.83rem; font-weight: bold; }
h6 { font-size: 0.67rem; font-weight: bold; }
ul, ol { padding-left: 40px; }
pre { font-family: monospace; white-space: pre; }
code, kbd, samp { font-family: monospace; }
b, strong { font-weight: bold; }
i, em, cite, var { font-style: italic; }
u, ins { text-decoration: underline; }
s, del, strike { text-decoration: line-through; }
a { color: #0000ee; text-decoration: underline; cursor: pointer; }
button, input, select, textarea { border-width: 1px; border-style: solid; border-color: #767676; background-color: #ffffff; }
input, textarea { cursor: text; padding-left: 2px; padding-right: 2px; }
button { background-color: #efefef; padding-left: 6px; padding-right: 6px; }
hr { border-top-width: 1px; border-top-style: solid; border-top-color: #808080; margin-top: 8px; margin-bottom: 8px; }
table { display: block; }
`
